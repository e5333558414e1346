package event

import (
	"strconv"

	"github.com/bibbank/savings-analytics/internal/domain/model"
	"github.com/bibbank/savings-analytics/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

// AlertRaisedType is the event type of AlertRaised.
const AlertRaisedType = "analytics.alert.raised"

// AlertRaised is published for every alert found on a group.
type AlertRaised struct {
	events.BaseEvent
	GroupID  int64   `json:"group_id"`
	Code     string  `json:"code"`
	Severity string  `json:"severity"`
	Message  string  `json:"message"`
	Value    float64 `json:"value"`
}

// NewAlertRaised creates an AlertRaised event from an alert.
func NewAlertRaised(alert model.Alert) AlertRaised {
	return AlertRaised{
		BaseEvent: events.NewBaseEvent(AlertRaisedType, strconv.FormatInt(alert.GroupID, 10), "SavingsGroup"),
		GroupID:   alert.GroupID,
		Code:      string(alert.Code),
		Severity:  string(alert.Severity),
		Message:   alert.Message,
		Value:     alert.Value,
	}
}
