package jobs

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/config"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
)

// DeclareQueues 声明排课任务队列和邮件队列，api、worker、mail 启动时都会调用
func DeclareQueues(cfg *config.Config, ch *amqp.Channel) error {
	for _, name := range []string{cfg.Job.Queue, EmailQueue} {
		_, err := ch.QueueDeclare(
			name,
			true,  // 持久化
			false, // 不自动删除
			false, // 不独占
			false, // 等待确认
			nil,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

type Publisher struct {
	cfg *config.Config
	ch  *amqp.Channel
}

func NewPublisher(cfg *config.Config, ch *amqp.Channel) *Publisher {
	return &Publisher{
		cfg: cfg,
		ch:  ch,
	}
}

func (p *Publisher) PublishJob(job *domain.TimetableJob) error {
	return p.publish(p.cfg.Job.Queue, job)
}

func (p *Publisher) PublishMail(msg *domain.MailMessage) error {
	return p.publish(EmailQueue, msg)
}

func (p *Publisher) publish(queue string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(p.cfg.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(
		ctx,
		"",
		queue,
		true,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}
