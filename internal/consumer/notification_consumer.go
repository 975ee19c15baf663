package consumer

import (
	"encoding/json"
	"log"

	"github.com/JohnShema/BE-Capstone-project/internal/models"
	"github.com/JohnShema/BE-Capstone-project/pkg/rabbitmq"
	amqp "github.com/rabbitmq/amqp091-go"
	"gorm.io/gorm"
)

// NotificationConsumer turns registration lifecycle messages into user
// notifications. Delivery is a log line for now; the queue contract and the
// routing keys are the stable part.
type NotificationConsumer struct {
	db *gorm.DB
}

func NewNotificationConsumer(db *gorm.DB) *NotificationConsumer {
	return &NotificationConsumer{db: db}
}

// Start processes messages until the channel closes.
func (nc *NotificationConsumer) Start(msgs <-chan amqp.Delivery) {
	go func() {
		for msg := range msgs {
			nc.handleMessage(msg)
		}
		log.Println("[NotificationConsumer] channel closed, stopping consumer")
	}()
}

func (nc *NotificationConsumer) handleMessage(msg amqp.Delivery) {
	var registration models.Registration
	if err := json.Unmarshal(msg.Body, &registration); err != nil {
		log.Printf("[NotificationConsumer] failed to unmarshal: %v", err)
		msg.Nack(false, false)
		return
	}

	var user models.User
	if err := nc.db.First(&user, registration.UserID).Error; err != nil {
		log.Printf("[NotificationConsumer] user %d not found: %v", registration.UserID, err)
		msg.Nack(false, false)
		return
	}
	var event models.Event
	if err := nc.db.First(&event, registration.EventID).Error; err != nil {
		log.Printf("[NotificationConsumer] event %d not found: %v", registration.EventID, err)
		msg.Nack(false, false)
		return
	}

	log.Printf("[NotificationConsumer] notify %s: %s for %q", user.Email, subjectFor(msg.RoutingKey), event.Title)
	msg.Ack(false)
}

func subjectFor(routingKey string) string {
	switch routingKey {
	case rabbitmq.KeyRegistrationConfirmed:
		return "your spot is confirmed"
	case rabbitmq.KeyRegistrationWaitlisted:
		return "you are on the waitlist"
	case rabbitmq.KeyRegistrationPromoted:
		return "a spot opened up, you are now confirmed"
	case rabbitmq.KeyRegistrationCancelled:
		return "your registration was cancelled"
	default:
		return "your registration changed"
	}
}
