package services

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"

	"github.com/huangang/compliancewatch/internal/config"
)

func TestTaskTypeDelivery_Constant(t *testing.T) {
	if TaskTypeDelivery != "report:deliver" {
		t.Errorf("TaskTypeDelivery = %q, expected %q", TaskTypeDelivery, "report:deliver")
	}
}

func TestDeliveryTask_JSON(t *testing.T) {
	task := DeliveryTask{
		ScheduleID:   "sched-1",
		ScheduleName: "Weekly summary",
		ReportType:   "compliance_summary",
		Format:       "pdf",
		Recipients:   []string{"a@example.com", "b@example.com"},
	}

	payload, err := json.Marshal(task)
	if err != nil {
		t.Fatal(err)
	}
	var decoded DeliveryTask
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.ScheduleID != "sched-1" || len(decoded.Recipients) != 2 {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestNewTaskQueue_SyncWhenRedisDisabled(t *testing.T) {
	cfg := config.DefaultConfig()
	queue := NewTaskQueue(cfg)
	if queue.IsAsync() {
		t.Error("expected sync queue when redis is disabled")
	}
}

func TestSyncQueue_IsAsync(t *testing.T) {
	if NewSyncQueue().IsAsync() {
		t.Error("SyncQueue.IsAsync() should return false")
	}
}

func TestSyncQueue_EnqueueWithoutProcessor(t *testing.T) {
	queue := NewSyncQueue()
	if err := queue.Enqueue(&DeliveryTask{ScheduleID: "s1"}); err != nil {
		t.Errorf("Enqueue without processor should not error, got %v", err)
	}
}

func TestSyncQueue_ProcessesAndCloseWaits(t *testing.T) {
	queue := NewSyncQueue()
	var processed atomic.Int32
	queue.SetProcessor(func(ctx context.Context, task *DeliveryTask) error {
		processed.Add(1)
		return nil
	})

	for i := 0; i < 3; i++ {
		if err := queue.Enqueue(&DeliveryTask{ScheduleID: "s1"}); err != nil {
			t.Fatal(err)
		}
	}
	if err := queue.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if processed.Load() != 3 {
		t.Errorf("processed = %d, expected 3", processed.Load())
	}
}

func TestAsyncQueue_IsAsync(t *testing.T) {
	queue := &AsyncQueue{}
	if !queue.IsAsync() {
		t.Error("AsyncQueue.IsAsync() should return true")
	}
}

func TestNewWorker_NilWhenRedisDisabled(t *testing.T) {
	if w := NewWorker(&config.RedisConfig{Enabled: false}); w != nil {
		t.Error("expected nil worker when redis is disabled")
	}
}
