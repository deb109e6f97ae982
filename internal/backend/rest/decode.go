package rest

import (
	"bytes"
	"encoding/json"
	"fmt"

	"taskflow/internal/service"
)

// decodeTaskList decodes a list response. The backend has shipped two
// envelopes and both must keep working:
//
//	[{...}, {...}]          bare array, used as-is
//	{"tasks": [{...}]}      object, the tasks field is used
//
// An object without a tasks field, null, or any other JSON scalar yields an
// empty list. Only malformed JSON and invalid tasks are errors.
func decodeTaskList(body []byte) ([]service.Task, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", service.ErrInvalidResponse, err)
	}

	var tasks []service.Task
	switch trimmed := bytes.TrimSpace(raw); {
	case len(trimmed) > 0 && trimmed[0] == '[':
		if err := json.Unmarshal(trimmed, &tasks); err != nil {
			return nil, fmt.Errorf("%w: %v", service.ErrInvalidResponse, err)
		}
	case len(trimmed) > 0 && trimmed[0] == '{':
		var envelope struct {
			Tasks []service.Task `json:"tasks"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("%w: %v", service.ErrInvalidResponse, err)
		}
		tasks = envelope.Tasks
	}

	result := make([]service.Task, 0, len(tasks))
	for _, t := range tasks {
		if err := t.Normalize(); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, nil
}

// decodeTask decodes a single task response.
func decodeTask(body []byte) (service.Task, error) {
	var t service.Task
	if err := json.Unmarshal(body, &t); err != nil {
		return service.Task{}, fmt.Errorf("%w: %v", service.ErrInvalidResponse, err)
	}
	if err := t.Normalize(); err != nil {
		return service.Task{}, err
	}
	return t, nil
}

// messageBody is the shape the backend uses for auth replies and errors.
type messageBody struct {
	Token   string `json:"token"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// decodeMessage extracts {token, message} from body, ignoring bodies that
// are not JSON objects.
func decodeMessage(body []byte) messageBody {
	var m messageBody
	if err := json.Unmarshal(body, &m); err != nil {
		return messageBody{}
	}
	if m.Message == "" {
		m.Message = m.Error
	}
	return m
}
