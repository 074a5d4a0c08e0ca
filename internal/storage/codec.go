package storage

import (
	"bytes"
	"encoding/json"
	"fmt"

	"task-manager/internal/domain"
	"task-manager/internal/errors"
)

// Encode serializes the ordered collection into the persisted envelope.
func Encode(tasks []domain.Task) ([]byte, error) {
	snap := snapshot{Tasks: make([]taskRecord, 0, len(tasks))}
	for _, task := range tasks {
		snap.Tasks = append(snap.Tasks, toRecord(task))
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, errors.NewSerializationError("encode tasks", err)
	}
	return data, nil
}

// Decode parses a persisted envelope. It is all-or-nothing: any malformed or
// duplicate record fails the whole decode.
func Decode(data []byte) ([]domain.Task, error) {
	var snap snapshot
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&snap); err != nil {
		return nil, errors.NewSerializationError("decode tasks", err)
	}
	if dec.More() {
		return nil, errors.NewSerializationError("decode tasks", fmt.Errorf("trailing data after envelope"))
	}

	tasks := make([]domain.Task, 0, len(snap.Tasks))
	seen := make(map[string]struct{}, len(snap.Tasks))
	for i, record := range snap.Tasks {
		task, err := fromRecord(record)
		if err != nil {
			return nil, errors.NewSerializationError("decode tasks", fmt.Errorf("record %d: %w", i, err))
		}
		if _, dup := seen[task.ID]; dup {
			return nil, errors.NewSerializationError("decode tasks", fmt.Errorf("record %d: duplicate id %s", i, task.ID))
		}
		seen[task.ID] = struct{}{}
		tasks = append(tasks, task)
	}
	return tasks, nil
}
