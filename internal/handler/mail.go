package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/week-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/week-planner/backend/internal/store"
)

// MailPublisher 将邮件投递到邮件队列，由 cmd/mail 消费
type MailPublisher interface {
	Publish(ctx context.Context, msg domain.MailMessage) error
}

type AMQPMailPublisher struct {
	channel *amqp.Channel
	queue   string
}

func NewAMQPMailPublisher(ch *amqp.Channel, queue string) *AMQPMailPublisher {
	return &AMQPMailPublisher{channel: ch, queue: queue}
}

func (p *AMQPMailPublisher) Publish(ctx context.Context, msg domain.MailMessage) error {
	// 序列化邮件
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return p.channel.PublishWithContext(
		ctx,
		"",
		p.queue,
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

func (h *Handler) publishMail(msg domain.MailMessage) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return h.mail.Publish(ctx, msg)
}

// notifyScheduleCreated 通知失败不影响日程本身的创建
func (h *Handler) notifyScheduleCreated(user *domain.User, kind, title string, start, end time.Time) {
	msg := domain.MailMessage{
		Type: domain.MailTypeScheduleCreated,
		To:   user.Email,
		Data: domain.ScheduleCreatedMailData{
			FullName:  user.FullName,
			Kind:      kind,
			Title:     title,
			StartTime: store.FormatISO(start),
			EndTime:   store.FormatISO(end),
		},
	}

	if err := h.publishMail(msg); err != nil {
		slog.Error("无法发送日程创建通知", "user", user.Username, "kind", kind, "error", err)
	}
}
