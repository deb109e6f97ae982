package commands_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"taskflow/internal/commands"
	"taskflow/internal/config"
	"taskflow/internal/engine"
	"taskflow/internal/exitcode"
	"taskflow/internal/service"
	"taskflow/internal/session"
	"taskflow/internal/testutil"
)

// newEngine builds an engine over svc whose session starts with token.
func newEngine(t *testing.T, svc *testutil.FakeService, token string) (*engine.Engine, *session.MemoryStore) {
	t.Helper()
	store := session.NewMemoryStore(token)
	sess, err := session.New(store)
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	return engine.New(svc, sess), store
}

// loggedIn returns an engine that has already fetched svc's tasks, the
// way the dispatcher hands it to session commands.
func loggedIn(t *testing.T, svc *testutil.FakeService) *engine.Engine {
	t.Helper()
	eng, _ := newEngine(t, svc, "abc")
	if err := eng.Resume(context.Background()); err != nil {
		t.Fatalf("resume failed: %v", err)
	}
	return eng
}

// runCommand is a helper to run a command against an engine.
func runCommand(t *testing.T, cmd commands.Command, eng *engine.Engine, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer

	cfg := &config.Config{
		Dir:   t.TempDir(),
		Quiet: quiet,
	}

	ctx := context.Background()
	code = cmd.Run(ctx, cfg, eng, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func seeded() *testutil.FakeService {
	svc := testutil.NewFakeService()
	svc.AddTask("t1", "Buy milk", service.StatusPending, service.PriorityLow)
	svc.AddTask("t2", "Write report", service.StatusCompleted, service.PriorityHigh)
	svc.AddTask("t3", "Call mom", service.StatusPending, service.PriorityMedium)
	return svc
}

func stored(t *testing.T, svc *testutil.FakeService, id service.TaskID) service.Task {
	t.Helper()
	for _, task := range svc.Stored() {
		if task.ID == id {
			return task
		}
	}
	t.Fatalf("task %s not in backend", id)
	return service.Task{}
}

// Tests for version command
func TestVersionCommand(t *testing.T) {
	cmd := &commands.VersionCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "taskflow 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

// Tests for help command
func TestHelpCommand(t *testing.T) {
	cmd := &commands.HelpCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	for _, want := range []string{"Usage:", "taskflow done", "TASKFLOW_API_URL"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("help output should contain %q", want)
		}
	}
}

// Tests for list command
func TestListCommand_AllTasks(t *testing.T) {
	eng := loggedIn(t, seeded())

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, eng, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	testutil.GoldenString(t, "list_all", stdout)
}

func TestListCommand_FilteredKeepsPositions(t *testing.T) {
	eng := loggedIn(t, seeded())

	cmd := &commands.ListCmd{}
	cmd.SetFilter("pending", "all")
	stdout, stderr, code := runCommand(t, cmd, eng, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	testutil.GoldenString(t, "list_pending", stdout)

	want := engine.Filter{Status: "pending", Priority: engine.All}
	if got := eng.Filter(); got != want {
		t.Errorf("expected engine filter %+v, got %+v", want, got)
	}
}

func TestListCommand_BothCriteria(t *testing.T) {
	eng := loggedIn(t, seeded())

	cmd := &commands.ListCmd{}
	cmd.SetFilter("pending", "medium")
	stdout, _, code := runCommand(t, cmd, eng, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	expected := "status=pending priority=medium\n------------\n   3  [ ] Call mom  (medium)\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_Empty(t *testing.T) {
	eng := loggedIn(t, testutil.NewFakeService())

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, eng, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	expected := "no tasks found\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_EmptyQuiet(t *testing.T) {
	eng := loggedIn(t, testutil.NewFakeService())

	stdout, _, code := runCommand(t, &commands.ListCmd{}, eng, nil, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
}

func TestListCommand_NoMatches(t *testing.T) {
	eng := loggedIn(t, seeded())

	cmd := &commands.ListCmd{}
	cmd.SetFilter("completed", "low")
	stdout, _, code := runCommand(t, cmd, eng, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "no tasks found\n" {
		t.Errorf("expected %q, got %q", "no tasks found\n", stdout)
	}
}

func TestListCommand_InvalidFilter(t *testing.T) {
	eng := loggedIn(t, seeded())

	cmd := &commands.ListCmd{}
	cmd.SetFilter("done", "all")
	_, stderr, code := runCommand(t, cmd, eng, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: invalid field: status filter \"done\"\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

// Tests for add command
func TestAddCommand_Success(t *testing.T) {
	svc := seeded()
	eng := loggedIn(t, svc)

	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, eng, []string{"Pay", "rent"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.HasPrefix(stdout, "ok ") {
		t.Errorf("expected 'ok <id>', got %q", stdout)
	}

	tasks := eng.Tasks()
	if len(tasks) != 4 {
		t.Fatalf("expected 4 tasks, got %d", len(tasks))
	}
	last := tasks[3]
	if last.Text != "Pay rent" {
		t.Errorf("expected text 'Pay rent', got %q", last.Text)
	}
	if last.Status != service.StatusPending || last.Priority != service.PriorityMedium {
		t.Errorf("expected pending/medium defaults, got %s/%s", last.Status, last.Priority)
	}
	if stdout != "ok "+string(last.ID)+"\n" {
		t.Errorf("expected created id in output, got %q", stdout)
	}
}

func TestAddCommand_WithFields(t *testing.T) {
	svc := testutil.NewFakeService()
	eng := loggedIn(t, svc)

	cmd := &commands.AddCmd{}
	cmd.SetFields("completed", "high")
	_, _, code := runCommand(t, cmd, eng, []string{"Ship it"}, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	backend := svc.Stored()
	if len(backend) != 1 {
		t.Fatalf("expected 1 task in backend, got %d", len(backend))
	}
	if backend[0].Status != service.StatusCompleted || backend[0].Priority != service.PriorityHigh {
		t.Errorf("expected completed/high, got %s/%s", backend[0].Status, backend[0].Priority)
	}
}

func TestAddCommand_Quiet(t *testing.T) {
	eng := loggedIn(t, testutil.NewFakeService())

	stdout, _, code := runCommand(t, &commands.AddCmd{}, eng, []string{"Buy milk"}, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout with --quiet, got %q", stdout)
	}
}

func TestAddCommand_BlankText(t *testing.T) {
	for _, args := range [][]string{nil, {"  "}, {"", "\t"}} {
		svc := testutil.NewFakeService()
		eng := loggedIn(t, svc)

		_, stderr, code := runCommand(t, &commands.AddCmd{}, eng, args, false)

		if code != exitcode.UserError {
			t.Errorf("args %q: expected exit code %d, got %d", args, exitcode.UserError, code)
		}
		if stderr != "error: task text required\n" {
			t.Errorf("args %q: expected title error, got %q", args, stderr)
		}
		if n := svc.Calls("CreateTask"); n != 0 {
			t.Errorf("args %q: expected no create call, got %d", args, n)
		}
	}
}

func TestAddCommand_InvalidPriority(t *testing.T) {
	svc := testutil.NewFakeService()
	eng := loggedIn(t, svc)

	cmd := &commands.AddCmd{}
	cmd.SetFields("", "urgent")
	_, stderr, code := runCommand(t, cmd, eng, []string{"Buy milk"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: invalid field: priority \"urgent\"\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
	if svc.Calls("CreateTask") != 0 {
		t.Error("expected no create call")
	}
}

// Tests for done/undo/toggle commands
func TestDoneCommand_MultipleRefs(t *testing.T) {
	svc := seeded()
	eng := loggedIn(t, svc)

	stdout, stderr, code := runCommand(t, commands.NewDoneCmd(), eng, []string{"1", "t3"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	for _, id := range []service.TaskID{"t1", "t3"} {
		if got := stored(t, svc, id).Status; got != service.StatusCompleted {
			t.Errorf("expected %s completed in backend, got %s", id, got)
		}
		local, _ := eng.Task(id)
		if local.Status != service.StatusCompleted {
			t.Errorf("expected %s completed locally, got %s", id, local.Status)
		}
	}
	if n := svc.Calls("UpdateTask"); n != 2 {
		t.Errorf("expected 2 update calls, got %d", n)
	}
	if busy := eng.Busy(); len(busy) != 0 {
		t.Errorf("expected no busy keys, got %v", busy)
	}
}

func TestDoneCommand_NoRef(t *testing.T) {
	eng := loggedIn(t, seeded())

	_, stderr, code := runCommand(t, commands.NewDoneCmd(), eng, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task reference required\n" {
		t.Errorf("expected ref error, got %q", stderr)
	}
}

func TestDoneCommand_OutOfRange(t *testing.T) {
	svc := seeded()
	eng := loggedIn(t, svc)

	_, stderr, code := runCommand(t, commands.NewDoneCmd(), eng, []string{"1", "9"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: task number out of range: 9\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
	if n := svc.Calls("UpdateTask"); n != 0 {
		t.Errorf("expected refs resolved before any update, got %d calls", n)
	}
}

func TestDoneCommand_BackendError(t *testing.T) {
	svc := seeded()
	eng := loggedIn(t, svc)
	svc.UpdateTaskErr["t1"] = &service.RemoteError{Verb: http.MethodPatch, Status: http.StatusInternalServerError}

	_, stderr, code := runCommand(t, commands.NewDoneCmd(), eng, []string{"1"}, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	expected := "error: backend error: PATCH failed: status 500\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
	local, _ := eng.Task("t1")
	if local.Status != service.StatusPending {
		t.Errorf("expected local copy unchanged, got %s", local.Status)
	}
}

func TestDoneCommand_PartialFailure(t *testing.T) {
	svc := seeded()
	eng := loggedIn(t, svc)
	svc.UpdateTaskErr["t3"] = service.ErrNetworkUnavailable

	_, stderr, code := runCommand(t, commands.NewDoneCmd(), eng, []string{"1", "3"}, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: network unavailable\n" {
		t.Errorf("expected network error, got %q", stderr)
	}
	if local, _ := eng.Task("t1"); local.Status != service.StatusCompleted {
		t.Errorf("expected t1 applied, got %s", local.Status)
	}
	if local, _ := eng.Task("t3"); local.Status != service.StatusPending {
		t.Errorf("expected t3 unchanged, got %s", local.Status)
	}
}

func TestDoneCommand_TokenRevoked(t *testing.T) {
	svc := seeded()
	eng := loggedIn(t, svc)
	svc.UpdateTaskErr["t1"] = &service.RemoteError{Verb: http.MethodPatch, Status: http.StatusUnauthorized, Message: "Invalid token"}

	_, stderr, code := runCommand(t, commands.NewDoneCmd(), eng, []string{"1"}, false)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	expected := "error: token expired or revoked (run: taskflow login)\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
	if !eng.Authenticated() {
		t.Error("expected session to be kept")
	}
}

func TestUndoCommand(t *testing.T) {
	svc := seeded()
	eng := loggedIn(t, svc)

	_, _, code := runCommand(t, commands.NewUndoCmd(), eng, []string{"2"}, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if got := stored(t, svc, "t2").Status; got != service.StatusPending {
		t.Errorf("expected t2 pending, got %s", got)
	}
	// priority is untouched by a status update
	if got := stored(t, svc, "t2").Priority; got != service.PriorityHigh {
		t.Errorf("expected t2 priority high, got %s", got)
	}
}

func TestToggleCommand(t *testing.T) {
	svc := seeded()
	eng := loggedIn(t, svc)

	_, _, code := runCommand(t, &commands.ToggleCmd{}, eng, []string{"t2"}, true)
	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if got := stored(t, svc, "t2").Status; got != service.StatusPending {
		t.Errorf("expected t2 pending, got %s", got)
	}

	_, _, code = runCommand(t, &commands.ToggleCmd{}, eng, []string{"t2"}, true)
	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if got := stored(t, svc, "t2").Status; got != service.StatusCompleted {
		t.Errorf("expected t2 completed, got %s", got)
	}
}

func TestToggleCommand_UnknownRef(t *testing.T) {
	eng := loggedIn(t, seeded())

	_, stderr, code := runCommand(t, &commands.ToggleCmd{}, eng, []string{"abc"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: task not found: abc\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

// Tests for priority command
func TestPriorityCommand_Success(t *testing.T) {
	svc := seeded()
	eng := loggedIn(t, svc)

	stdout, _, code := runCommand(t, &commands.PriorityCmd{}, eng, []string{"1", "high"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	task := stored(t, svc, "t1")
	if task.Priority != service.PriorityHigh || task.Status != service.StatusPending {
		t.Errorf("expected pending/high, got %s/%s", task.Status, task.Priority)
	}
}

func TestPriorityCommand_InvalidLevel(t *testing.T) {
	svc := seeded()
	eng := loggedIn(t, svc)

	_, stderr, code := runCommand(t, &commands.PriorityCmd{}, eng, []string{"1", "urgent"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: invalid field: priority \"urgent\"\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
	if svc.Calls("UpdateTask") != 0 {
		t.Error("expected no update call")
	}
}

func TestPriorityCommand_MissingArgs(t *testing.T) {
	eng := loggedIn(t, seeded())

	_, stderr, code := runCommand(t, &commands.PriorityCmd{}, eng, []string{"1"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task reference and priority required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for rm command
func TestRmCommand_MultipleRefs(t *testing.T) {
	svc := seeded()
	eng := loggedIn(t, svc)

	stdout, stderr, code := runCommand(t, &commands.RmCmd{}, eng, []string{"1", "2"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	tasks := eng.Tasks()
	if len(tasks) != 1 || tasks[0].ID != "t3" {
		t.Errorf("expected only t3 to remain locally, got %v", tasks)
	}
	if n := len(svc.Stored()); n != 1 {
		t.Errorf("expected 1 task in backend, got %d", n)
	}
}

func TestRmCommand_NotFoundOnServer(t *testing.T) {
	svc := seeded()
	eng := loggedIn(t, svc)
	svc.DeleteTaskErr["t1"] = testutil.ErrNotFound

	_, stderr, code := runCommand(t, &commands.RmCmd{}, eng, []string{"1"}, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	expected := "error: backend error: fake failed: status 404: Task not found\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
	if len(eng.Tasks()) != 3 {
		t.Errorf("expected collection unchanged, got %d tasks", len(eng.Tasks()))
	}
}

func TestRmCommand_NoRef(t *testing.T) {
	eng := loggedIn(t, seeded())

	_, stderr, code := runCommand(t, &commands.RmCmd{}, eng, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task reference required\n" {
		t.Errorf("expected ref error, got %q", stderr)
	}
}

// Tests for login/register/logout commands
func TestLoginCommand_Success(t *testing.T) {
	svc := seeded()
	svc.AddUser("ann", "secret")
	eng, store := newEngine(t, svc, "")

	cmd := &commands.LoginCmd{}
	cmd.SetCredentials("ann", "secret")
	stdout, stderr, code := runCommand(t, cmd, eng, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok (3 tasks)\n" {
		t.Errorf("expected 'ok (3 tasks)\\n', got %q", stdout)
	}
	if token, _ := store.Load(); token != testutil.TokenFor("ann") {
		t.Errorf("expected token persisted, got %q", token)
	}
}

func TestLoginCommand_CredentialsFromConfig(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("ann", "secret")
	eng, _ := newEngine(t, svc, "")

	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{Dir: t.TempDir(), Username: "ann", Password: "secret", Quiet: true}
	code := (&commands.LoginCmd{}).Run(context.Background(), cfg, eng, nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d (%s)", exitcode.Success, code, errBuf.String())
	}
	if !eng.Authenticated() {
		t.Error("expected authenticated engine")
	}
}

func TestLoginCommand_Rejected(t *testing.T) {
	svc := testutil.NewFakeService()
	eng, store := newEngine(t, svc, "")

	cmd := &commands.LoginCmd{}
	cmd.SetCredentials("ann", "wrong")
	stdout, stderr, code := runCommand(t, cmd, eng, nil, false)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	expected := "error: login rejected: Invalid credentials\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
	if token, _ := store.Load(); token != "" {
		t.Errorf("expected no token stored, got %q", token)
	}
}

func TestLoginCommand_MissingCredentials(t *testing.T) {
	svc := testutil.NewFakeService()
	eng, _ := newEngine(t, svc, "")

	cmd := &commands.LoginCmd{}
	cmd.SetCredentials("ann", "")
	_, stderr, code := runCommand(t, cmd, eng, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, "username and password required") {
		t.Errorf("expected credentials error, got %q", stderr)
	}
	if svc.TotalCalls() != 0 {
		t.Error("expected no backend calls")
	}
}

func TestRegisterCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	eng, _ := newEngine(t, svc, "")

	cmd := &commands.RegisterCmd{}
	cmd.SetCredentials("ann", "secret")
	stdout, stderr, code := runCommand(t, cmd, eng, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "registered (run: taskflow login)\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
	if eng.Authenticated() {
		t.Error("register must not start a session")
	}

	_, stderr, code = runCommand(t, cmd, eng, nil, false)
	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: registration rejected: User already exists\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestLogoutCommand(t *testing.T) {
	eng, store := newEngine(t, seeded(), "abc")
	if err := eng.Resume(context.Background()); err != nil {
		t.Fatalf("resume failed: %v", err)
	}

	stdout, stderr, code := runCommand(t, &commands.LogoutCmd{}, eng, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	if token, _ := store.Load(); token != "" {
		t.Errorf("expected token removed, got %q", token)
	}
	if len(eng.Tasks()) != 0 {
		t.Errorf("expected empty collection, got %d tasks", len(eng.Tasks()))
	}
}

func TestLogoutCommand_NotLoggedIn(t *testing.T) {
	eng, _ := newEngine(t, testutil.NewFakeService(), "")

	stdout, _, code := runCommand(t, &commands.LogoutCmd{}, eng, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "not logged in\n" {
		t.Errorf("expected 'not logged in\\n', got %q", stdout)
	}
}

func TestLogoutCommand_NotLoggedInQuiet(t *testing.T) {
	eng, _ := newEngine(t, testutil.NewFakeService(), "")

	stdout, _, code := runCommand(t, &commands.LogoutCmd{}, eng, nil, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
}

func TestLogoutCommand_DeleteFails(t *testing.T) {
	eng, store := newEngine(t, testutil.NewFakeService(), "abc")
	store.DeleteErr = errors.New("read-only filesystem")

	_, stderr, code := runCommand(t, &commands.LogoutCmd{}, eng, nil, false)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !strings.HasPrefix(stderr, "error: failed to remove token:") {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if eng.Authenticated() {
		t.Error("expected in-memory session cleared")
	}
}

func TestFail_Classes(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{service.ErrEmptyInput, exitcode.UserError},
		{engine.ErrTaskNotFound, exitcode.UserError},
		{service.ErrRegisterRejected, exitcode.UserError},
		{service.ErrLoginRejected, exitcode.AuthError},
		{engine.ErrEmptyToken, exitcode.AuthError},
		{&service.RemoteError{Verb: "GET", Status: http.StatusForbidden}, exitcode.AuthError},
		{&service.RemoteError{Verb: "GET", Status: http.StatusBadGateway}, exitcode.BackendError},
		{service.ErrInvalidResponse, exitcode.BackendError},
		{service.ErrNetworkUnavailable, exitcode.BackendError},
	}
	for _, c := range cases {
		var buf bytes.Buffer
		if got := commands.Fail(&buf, c.err); got != c.code {
			t.Errorf("%v: expected exit code %d, got %d", c.err, c.code, got)
		}
		if !strings.HasPrefix(buf.String(), "error: ") {
			t.Errorf("%v: expected error prefix, got %q", c.err, buf.String())
		}
	}
}
