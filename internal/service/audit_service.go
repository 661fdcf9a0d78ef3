package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/noah-isme/mosquee-go/internal/dto"
	"github.com/noah-isme/mosquee-go/internal/models"
	"github.com/noah-isme/mosquee-go/internal/observability"
	"github.com/noah-isme/mosquee-go/internal/repository"
)

const (
	defaultAuditPageSize = 50
	maxAuditPageSize     = 200
)

// AuditEntry captures the details required to persist an audit entry.
type AuditEntry struct {
	UserID       *uint
	Username     string
	Action       models.AuditAction
	ResourceType models.AuditResource
	ResourceID   *uint
	ResourceName string
	Description  string
	OldValues    interface{}
	NewValues    interface{}
	IPAddress    string
	UserAgent    string
	Status       models.AuditStatus
	ErrorMessage string
}

// AuditOutcome reports what happened to a best-effort audit write.
type AuditOutcome struct {
	Entry     models.AuditLog
	Stored    bool
	Published bool
	Err       error
}

// AuditPublisher fans stored entries out to a message bus. *nats.Conn satisfies it.
type AuditPublisher interface {
	Publish(subject string, data []byte) error
}

// AuditRecorder records audit entries without ever failing the caller.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry) AuditOutcome
	LogLogin(ctx context.Context, meta RequestMeta, username string, userID *uint, success bool, reason string) AuditOutcome
	LogLogout(ctx context.Context, meta RequestMeta) AuditOutcome
	LogCRUD(ctx context.Context, meta RequestMeta, action models.AuditAction, resource models.AuditResource, id *uint, name string, oldValues, newValues interface{}, description string) AuditOutcome
}

// AuditService exposes audit recording and querying.
type AuditService interface {
	AuditRecorder
	List(ctx context.Context, req dto.AuditLogListRequest) (dto.AuditLogListResponse, error)
}

type auditService struct {
	repo      repository.AuditLogRepository
	publisher AuditPublisher
	subject   string
	logger    zerolog.Logger
}

// NewAuditService constructs the audit service. publisher may be nil.
func NewAuditService(repo repository.AuditLogRepository, publisher AuditPublisher, subject string, logger zerolog.Logger) AuditService {
	return &auditService{
		repo:      repo,
		publisher: publisher,
		subject:   strings.TrimSpace(subject),
		logger:    logger.With().Str("component", "audit_service").Logger(),
	}
}

var auditActionText = map[models.AuditAction]string{
	models.AuditCreate: "Création",
	models.AuditUpdate: "Modification",
	models.AuditDelete: "Suppression",
	models.AuditView:   "Consultation",
}

var auditResourceText = map[models.AuditResource]string{
	models.AuditResourceEvent:    "événement",
	models.AuditResourceNews:     "actualité",
	models.AuditResourceQuote:    "citation",
	models.AuditResourceMember:   "membre",
	models.AuditResourceDonation: "campagne de don",
	models.AuditResourceUser:     "utilisateur",
	models.AuditResourceSetting:  "paramètre",
	models.AuditResourceTaxonomy: "taxonomie",
}

// DescribeCRUD builds the default human readable description of a CRUD action.
func DescribeCRUD(action models.AuditAction, resource models.AuditResource, name string) string {
	actionText, ok := auditActionText[action]
	if !ok {
		actionText = string(action)
	}
	resourceText, ok := auditResourceText[resource]
	if !ok {
		resourceText = string(resource)
	}
	description := actionText + " " + resourceText
	if name != "" {
		description += ": " + name
	}
	return description
}

func (s *auditService) Record(ctx context.Context, entry AuditEntry) AuditOutcome {
	if entry.Status == "" {
		entry.Status = models.AuditStatusSuccess
	}

	model := models.AuditLog{
		UserID:       entry.UserID,
		Username:     entry.Username,
		Action:       entry.Action,
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID,
		ResourceName: entry.ResourceName,
		Description:  entry.Description,
		OldValues:    datatypes.JSON(snapshot(entry.OldValues)),
		NewValues:    datatypes.JSON(snapshot(entry.NewValues)),
		IPAddress:    defaultUnknown(entry.IPAddress),
		UserAgent:    defaultUnknown(entry.UserAgent),
		Status:       entry.Status,
		ErrorMessage: entry.ErrorMessage,
	}

	outcome := AuditOutcome{Entry: model}

	if strings.TrimSpace(string(entry.Action)) == "" {
		outcome.Err = fmt.Errorf("audit action is required")
		s.fail(outcome)
		return outcome
	}

	if err := s.repo.Create(ctx, &model); err != nil {
		outcome.Err = fmt.Errorf("persist audit entry: %w", err)
		s.fail(outcome)
		return outcome
	}

	outcome.Entry = model
	outcome.Stored = true
	observability.AuditWrites().WithLabelValues("stored").Inc()

	if s.publisher != nil && s.subject != "" {
		if payload, err := json.Marshal(model); err == nil {
			if err := s.publisher.Publish(s.subject, payload); err != nil {
				s.logger.Warn().Err(err).Str("subject", s.subject).Msg("failed to publish audit entry")
			} else {
				outcome.Published = true
			}
		}
	}

	return outcome
}

func (s *auditService) fail(outcome AuditOutcome) {
	observability.AuditWrites().WithLabelValues("failed").Inc()
	s.logger.Warn().
		Err(outcome.Err).
		Str("action", string(outcome.Entry.Action)).
		Str("resource_type", string(outcome.Entry.ResourceType)).
		Str("username", outcome.Entry.Username).
		Msg("audit entry dropped")
}

func (s *auditService) LogLogin(ctx context.Context, meta RequestMeta, username string, userID *uint, success bool, reason string) AuditOutcome {
	ip := defaultUnknown(meta.IPAddress)
	entry := AuditEntry{
		UserID:    userID,
		Username:  username,
		IPAddress: ip,
		UserAgent: meta.UserAgent,
	}
	if success {
		entry.Action = models.AuditLoginSuccess
		entry.Status = models.AuditStatusSuccess
		entry.Description = "Connexion réussie depuis " + ip
	} else {
		entry.Action = models.AuditLoginFailed
		entry.Status = models.AuditStatusFailure
		entry.Description = "Tentative de connexion échouée: " + reason
		entry.ErrorMessage = reason
	}
	return s.Record(ctx, entry)
}

func (s *auditService) LogLogout(ctx context.Context, meta RequestMeta) AuditOutcome {
	ip := defaultUnknown(meta.IPAddress)
	return s.Record(ctx, AuditEntry{
		UserID:      meta.userID(),
		Username:    meta.username(),
		Action:      models.AuditLogout,
		Description: "Déconnexion depuis " + ip,
		IPAddress:   ip,
		UserAgent:   meta.UserAgent,
	})
}

func (s *auditService) LogCRUD(ctx context.Context, meta RequestMeta, action models.AuditAction, resource models.AuditResource, id *uint, name string, oldValues, newValues interface{}, description string) AuditOutcome {
	if strings.TrimSpace(description) == "" {
		description = DescribeCRUD(action, resource, name)
	}
	return s.Record(ctx, AuditEntry{
		UserID:       meta.userID(),
		Username:     meta.username(),
		Action:       action,
		ResourceType: resource,
		ResourceID:   id,
		ResourceName: name,
		Description:  description,
		OldValues:    oldValues,
		NewValues:    newValues,
		IPAddress:    meta.IPAddress,
		UserAgent:    meta.UserAgent,
	})
}

func (s *auditService) List(ctx context.Context, req dto.AuditLogListRequest) (dto.AuditLogListResponse, error) {
	page := req.Page
	if page < 0 {
		page = 0
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultAuditPageSize
	}
	if limit > maxAuditPageSize {
		limit = maxAuditPageSize
	}

	filter := repository.AuditLogFilter{Page: page, Limit: limit}
	if action := strings.ToUpper(strings.TrimSpace(req.Filter)); action != "" && action != "ALL" {
		filter.Action = models.AuditAction(action)
	}

	logs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.AuditLogListResponse{}, err
	}
	if logs == nil {
		logs = []models.AuditLog{}
	}

	return dto.AuditLogListResponse{
		Success: true,
		Logs:    logs,
		Page:    page,
		Limit:   limit,
		Total:   total,
	}, nil
}

func defaultUnknown(value string) string {
	if strings.TrimSpace(value) == "" {
		return "unknown"
	}
	return value
}
