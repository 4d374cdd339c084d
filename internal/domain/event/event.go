package event

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Type string

const (
	LoanRequested   Type = "loan.requested"
	LoanApproved    Type = "loan.approved"
	LoanRejected    Type = "loan.rejected"
	LoanRepaid      Type = "loan.repaid"
	LoanCompleted   Type = "loan.completed"
	PaymentRecorded Type = "payment.recorded"
)

// Event is a committed state change, published after the transaction ends.
type Event struct {
	ID         string          `json:"id"`
	Type       Type            `json:"type"`
	SubjectID  string          `json:"subject_id"`
	UserID     string          `json:"user_id"`
	Amount     decimal.Decimal `json:"amount"`
	OccurredAt time.Time       `json:"occurred_at"`
}

func New(t Type, subjectID, userID string, amount decimal.Decimal, at time.Time) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		SubjectID:  subjectID,
		UserID:     userID,
		Amount:     amount,
		OccurredAt: at.UTC(),
	}
}

func (e Event) ToJSON() ([]byte, error) { return json.Marshal(e) }

func FromJSON(data []byte) (Event, error) {
	var e Event
	err := json.Unmarshal(data, &e)
	return e, err
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Emit publishes e and only logs a failure: the state change it describes is
// already committed.
func Emit(ctx context.Context, p Publisher, e Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, e); err != nil {
		slog.WarnContext(ctx, "event publish failed",
			"type", e.Type,
			"subject_id", e.SubjectID,
			"error", err,
		)
	}
}
