package notifications

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"

	"github.com/hlra-health/profilesync/errors"
)

var ErrNotFound = fmt.Errorf("notification %w", errors.NotFound)

type Type string

const (
	TypeSystem             Type = "system"
	TypeHealthAlert        Type = "health_alert"
	TypeReminder           Type = "reminder"
	TypeTrendAlert         Type = "trend_alert"
	TypeParameterAlert     Type = "parameter_alert"
	TypeCheckupReminder    Type = "checkup_reminder"
	TypeMedicationReminder Type = "medication_reminder"
	TypeReportReady        Type = "report_ready"
	TypeProfileUpdate      Type = "profile_update"
)

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityNormal   Priority = "normal"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

const (
	StatusCritical = "critical"

	healthAlertExpiration     = 30 * 24 * time.Hour
	checkupReminderExpiration = 7 * 24 * time.Hour
	reportReadyExpiration     = 30 * 24 * time.Hour
)

type Action struct {
	Label string `json:"label"`
	Url   string `json:"url"`
}

type Notification struct {
	Id             string         `json:"id"`
	AccountId      string         `json:"accountId"`
	ProfileId      *string        `json:"profileId,omitempty"`
	Type           Type           `json:"type"`
	Priority       Priority       `json:"priority"`
	Title          string         `json:"title"`
	Message        string         `json:"message"`
	Data           map[string]any `json:"data"`
	Read           bool           `json:"read"`
	Dismissed      bool           `json:"dismissed"`
	CreatedTime    time.Time      `json:"createdTime"`
	ReadTime       *time.Time     `json:"readTime,omitempty"`
	DismissedTime  *time.Time     `json:"dismissedTime,omitempty"`
	ExpirationTime *time.Time     `json:"expirationTime,omitempty"`
	ShowToast      bool           `json:"showToast"`
	Persist        bool           `json:"persist"`
	Actions        []Action       `json:"actions"`
}

func (n Notification) IsExpired(now time.Time) bool {
	return n.ExpirationTime != nil && !n.ExpirationTime.After(now)
}

func (n Notification) BelongsTo(profileId *string) bool {
	return profileId == nil || (n.ProfileId != nil && *n.ProfileId == *profileId)
}

type HealthAlertData struct {
	Parameter string `mapstructure:"parameter"`
	Value     string `mapstructure:"value"`
	Status    string `mapstructure:"status"`
	ReportId  string `mapstructure:"report_id"`
}

type CheckupReminderData struct {
	DaysSinceLast int `mapstructure:"days_since_last"`
}

type ReportReadyData struct {
	ReportId string `mapstructure:"report_id"`
	Filename string `mapstructure:"filename"`
}

type ProfileUpdateData struct {
	ProfileId string `mapstructure:"profile_id"`
	Change    string `mapstructure:"change"`
}

// DecodeData decodes the data of the notification into the type specific struct
func DecodeData[A any](n Notification) (data A, err error) {
	err = mapstructure.Decode(n.Data, &data)
	return
}

func newNotification(accountId string, profileId *string, t Type, priority Priority, now time.Time) Notification {
	return Notification{
		Id:          uuid.NewString(),
		AccountId:   accountId,
		ProfileId:   profileId,
		Type:        t,
		Priority:    priority,
		Data:        map[string]any{},
		CreatedTime: now,
		ShowToast:   true,
		Persist:     true,
		Actions:     []Action{},
	}
}

func expiresAfter(now time.Time, d time.Duration) *time.Time {
	expiration := now.Add(d)
	return &expiration
}

func NewHealthAlert(accountId string, profileId string, parameter string, value string, status string, reportId string, now time.Time) Notification {
	priority := PriorityNormal
	if status == StatusCritical {
		priority = PriorityHigh
	}
	n := newNotification(accountId, &profileId, TypeHealthAlert, priority, now)
	n.Title = fmt.Sprintf("Health Alert: %s", parameter)
	n.Message = fmt.Sprintf("Your %s level is %s: %s. Please consult your healthcare provider if needed.", parameter, status, value)
	n.Data = map[string]any{
		"parameter": parameter,
		"value":     value,
		"status":    status,
		"report_id": reportId,
	}
	n.Actions = []Action{{Label: "View Report", Url: "/reports/" + reportId}}
	n.ExpirationTime = expiresAfter(now, healthAlertExpiration)
	return n
}

func NewCheckupReminder(accountId string, profileId string, daysSinceLast int, now time.Time) Notification {
	n := newNotification(accountId, &profileId, TypeCheckupReminder, PriorityNormal, now)
	n.Title = "Regular Checkup Reminder"
	n.Message = fmt.Sprintf("It's been %d days since your last checkup. Consider scheduling your next appointment.", daysSinceLast)
	n.Data = map[string]any{"days_since_last": daysSinceLast}
	n.Actions = []Action{{Label: "Schedule Appointment", Url: "/schedule"}}
	n.ExpirationTime = expiresAfter(now, checkupReminderExpiration)
	return n
}

func NewReportReady(accountId string, profileId string, reportId string, filename string, now time.Time) Notification {
	n := newNotification(accountId, &profileId, TypeReportReady, PriorityNormal, now)
	n.Title = "Report Analysis Complete"
	n.Message = fmt.Sprintf("Your lab report '%s' has been processed and is ready for review.", filename)
	n.Data = map[string]any{
		"report_id": reportId,
		"filename":  filename,
	}
	n.Actions = []Action{{Label: "View Report", Url: "/reports/" + reportId}}
	n.ExpirationTime = expiresAfter(now, reportReadyExpiration)
	return n
}

func NewProfileUpdate(accountId string, profileId string, profileName string, change string, now time.Time) Notification {
	n := newNotification(accountId, &profileId, TypeProfileUpdate, PriorityLow, now)
	n.Title = "Profile Updated"
	n.Message = fmt.Sprintf("The profile of %s was %s.", profileName, change)
	n.Data = map[string]any{
		"profile_id": profileId,
		"change":     change,
	}
	n.Persist = false
	return n
}

func NewSessionExpired(accountId string, now time.Time) Notification {
	n := newNotification(accountId, nil, TypeSystem, PriorityHigh, now)
	n.Title = "Session Expired"
	n.Message = "Your session has expired. Please sign in again."
	n.Actions = []Action{{Label: "Sign In", Url: "/login"}}
	return n
}
