package models_test

import (
	"testing"

	"github.com/dalemusser/mepad/internal/domain/models"
)

func TestTask_IsCompleted(t *testing.T) {
	for _, status := range models.TaskStatuses {
		got := models.Task{Status: status}.IsCompleted()
		if want := status == models.TaskCompleted; got != want {
			t.Errorf("IsCompleted(%q) = %v, want %v", status, got, want)
		}
	}
}
