package notifications

import (
	"fmt"
	"strings"
	"time"

	"github.com/hlra-health/profilesync/errors"
)

var ErrInvalidRequest = fmt.Errorf("notification request %w", errors.BadRequest)

// Request is a notification raised by the client, typically once an uploaded report was analyzed
type Request struct {
	Type          Type   `json:"type"`
	ProfileId     string `json:"profileId"`
	Parameter     string `json:"parameter,omitempty"`
	Value         string `json:"value,omitempty"`
	Status        string `json:"status,omitempty"`
	ReportId      string `json:"reportId,omitempty"`
	Filename      string `json:"filename,omitempty"`
	DaysSinceLast int    `json:"daysSinceLast,omitempty"`
}

// Build validates the request and creates the notification with the matching builder
func (r Request) Build(accountId string, now time.Time) (Notification, error) {
	if strings.TrimSpace(r.ProfileId) == "" {
		return Notification{}, fmt.Errorf("%w: profileId is required", ErrInvalidRequest)
	}

	switch r.Type {
	case TypeHealthAlert:
		if r.Parameter == "" || r.Value == "" || r.Status == "" || r.ReportId == "" {
			return Notification{}, fmt.Errorf("%w: parameter, value, status and reportId are required", ErrInvalidRequest)
		}
		return NewHealthAlert(accountId, r.ProfileId, r.Parameter, r.Value, r.Status, r.ReportId, now), nil
	case TypeCheckupReminder:
		if r.DaysSinceLast <= 0 {
			return Notification{}, fmt.Errorf("%w: daysSinceLast must be positive", ErrInvalidRequest)
		}
		return NewCheckupReminder(accountId, r.ProfileId, r.DaysSinceLast, now), nil
	case TypeReportReady:
		if r.ReportId == "" || r.Filename == "" {
			return Notification{}, fmt.Errorf("%w: reportId and filename are required", ErrInvalidRequest)
		}
		return NewReportReady(accountId, r.ProfileId, r.ReportId, r.Filename, now), nil
	default:
		return Notification{}, fmt.Errorf("%w: unsupported type %q", ErrInvalidRequest, r.Type)
	}
}
