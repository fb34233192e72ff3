package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jhoicas/omnitrack-api/internal/application/orders"
	"github.com/jhoicas/omnitrack-api/pkg/logger"
	"github.com/segmentio/kafka-go"
)

var _ orders.EventPublisher = (*Producer)(nil)

// Producer publica eventos de dominio en Kafka. Fire-and-forget desde el punto
// de vista del motor: los errores se loguean y no se propagan, porque el evento
// se emite después del commit y el estado persistido ya es la verdad.
type Producer struct {
	w   *kafka.Writer
	log *logger.Logger
}

// NewProducer construye el productor. El tópico se fija por mensaje, no en el writer.
func NewProducer(brokers []string, log *logger.Logger) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			BatchTimeout: 50 * time.Millisecond,
		},
		log: log,
	}
}

// Publish serializa el evento y lo escribe en el tópico indicado.
// La key de partición mantiene el orden de los eventos de una misma entidad.
func (p *Producer) Publish(ctx context.Context, topic, key string, event orders.Event) {
	value, err := json.Marshal(event)
	if err != nil {
		p.log.Error().Err(err).Str("event_type", event.EventType).Msg("serializar evento")
		return
	}
	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	}
	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := p.w.WriteMessages(writeCtx, msg); err != nil {
		p.log.Error().Err(err).Str("topic", topic).Str("event_type", event.EventType).Msg("publicar evento")
	}
}

// Close cierra el writer subyacente.
func (p *Producer) Close() error {
	return p.w.Close()
}
