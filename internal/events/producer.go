// Package events publishes completed-session events to Kafka for
// downstream analytics consumers.
package events

import (
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/draftlab/draft-api/internal/models"
)

const TopicSessionCompleted = "draft.session.completed"

// SessionCompletedEvent is the analytics payload emitted once per
// finished session.
type SessionCompletedEvent struct {
	SessionID      string    `json:"session_id"`
	PlayerName     string    `json:"player_name"`
	Difficulty     string    `json:"difficulty"`
	TotalScore     int       `json:"total_score"`
	Rating         string    `json:"rating"`
	Rank           string    `json:"rank"`
	WinProbability float64   `json:"win_probability"`
	PerfectMoves   int       `json:"perfect_moves"`
	Combos         int       `json:"combos"`
	Achievements   []string  `json:"achievements"`
	PlayerPicks    []string  `json:"player_picks"`
	PlayerBans     []string  `json:"player_bans"`
	CompletedAt    time.Time `json:"completed_at"`
}

// Producer handles Kafka event production. A producer constructed without
// reachable brokers stays disabled and drops events silently, so game flow
// never depends on Kafka availability.
type Producer struct {
	producer sarama.SyncProducer
	enabled  bool
	logger   *zap.SugaredLogger
}

// NewProducer connects to the given brokers. An empty broker list or a
// connection failure yields a disabled producer, not an error.
func NewProducer(brokers []string, logger *zap.SugaredLogger) *Producer {
	if len(brokers) == 0 {
		logger.Info("Kafka brokers not configured, session events disabled")
		return &Producer{enabled: false, logger: logger}
	}

	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 3

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		logger.Warnw("Kafka producer not available, session events disabled", "error", err)
		return &Producer{enabled: false, logger: logger}
	}

	logger.Info("Kafka producer connected")
	return &Producer{producer: producer, enabled: true, logger: logger}
}

// SessionCompleted emits one event per finished session.
func (p *Producer) SessionCompleted(sess *models.GameSession, final models.FinalScore) {
	if !p.enabled {
		return
	}

	event := SessionCompletedEvent{
		SessionID:      sess.ID,
		PlayerName:     sess.PlayerName,
		Difficulty:     sess.Difficulty,
		TotalScore:     final.TotalScore,
		Rating:         final.Rating,
		Rank:           final.Rank,
		WinProbability: sess.FinalWinProbability,
		PerfectMoves:   sess.PerfectMoves,
		Combos:         sess.ComboCount,
		Achievements:   final.Achievements,
		PlayerPicks:    sess.PlayerPicks,
		PlayerBans:     sess.PlayerBans,
	}
	if sess.CompletedAt != nil {
		event.CompletedAt = *sess.CompletedAt
	}

	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Errorw("Failed to encode session event", "session", sess.ID, "error", err)
		return
	}

	msg := &sarama.ProducerMessage{
		Topic: TopicSessionCompleted,
		Key:   sarama.StringEncoder(sess.ID),
		Value: sarama.ByteEncoder(data),
	}

	if _, _, err := p.producer.SendMessage(msg); err != nil {
		p.logger.Errorw("Failed to publish session event", "session", sess.ID, "error", err)
	}
}

// Close closes the underlying producer.
func (p *Producer) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// IsEnabled reports whether events are being published.
func (p *Producer) IsEnabled() bool {
	return p.enabled
}
