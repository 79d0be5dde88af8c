package worker

import (
	"context"
	"testing"

	"github.com/bazaar-next/internal/provider"
	"github.com/bazaar-next/internal/queue"

	"github.com/hibiken/asynq"
)

func TestConsumerRegisterNil(t *testing.T) {
	var c *Consumer
	c.Register(nil)

	NewConsumer(nil).Register(nil)

	mux := asynq.NewServeMux()
	var nilConsumer *Consumer
	nilConsumer.Register(mux)
}

func TestHandleOrderStatusEmailInvalidPayload(t *testing.T) {
	c := NewConsumer(&provider.Container{})

	task := asynq.NewTask(queue.TaskOrderStatusEmail, []byte("{not json"))
	if err := c.handleOrderStatusEmail(context.Background(), task); err == nil {
		t.Fatal("期望非法 payload 返回错误")
	}

	task = asynq.NewTask(queue.TaskOrderStatusEmail, []byte(`{"order_id":0}`))
	if err := c.handleOrderStatusEmail(context.Background(), task); err != nil {
		t.Fatalf("期望跳过 order_id=0 的任务, got: %v", err)
	}

	if err := c.handleOrderStatusEmail(context.Background(), nil); err != nil {
		t.Fatalf("期望跳过 nil 任务, got: %v", err)
	}
}

func TestHandleOrderTimeoutCancelInvalidPayload(t *testing.T) {
	c := NewConsumer(&provider.Container{})

	task := asynq.NewTask(queue.TaskOrderTimeoutCancel, []byte("{not json"))
	if err := c.handleOrderTimeoutCancel(context.Background(), task); err == nil {
		t.Fatal("期望非法 payload 返回错误")
	}

	task = asynq.NewTask(queue.TaskOrderTimeoutCancel, []byte(`{"order_id":0}`))
	if err := c.handleOrderTimeoutCancel(context.Background(), task); err != nil {
		t.Fatalf("期望跳过 order_id=0 的任务, got: %v", err)
	}

	// OrderService 未初始化时直接跳过
	task = asynq.NewTask(queue.TaskOrderTimeoutCancel, []byte(`{"order_id":10}`))
	if err := c.handleOrderTimeoutCancel(context.Background(), task); err != nil {
		t.Fatalf("期望在 OrderService 为空时跳过, got: %v", err)
	}
}
