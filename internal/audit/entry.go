package audit

import (
	"encoding/json"
	"strings"

	"github.com/khanghh/unionhub/model"
	"github.com/spf13/cast"
	"gorm.io/datatypes"
)

type ActorType string

const (
	ActorAdmin     ActorType = "admin"
	ActorProponent ActorType = "proponent"
	ActorSystem    ActorType = "system"
	ActorAI        ActorType = "AI"
)

var ActorTypes = []ActorType{ActorAdmin, ActorProponent, ActorSystem, ActorAI}

func ParseActorType(s string) (ActorType, error) {
	for _, t := range ActorTypes {
		if strings.EqualFold(string(t), s) {
			return t, nil
		}
	}
	return "", ErrInvalidActorType
}

const metadataActorTypeKey = "actorType"

// Actor identifies who performed an audited action.
type Actor struct {
	AdminID *uint
	UserID  *uint
	Hint    ActorType
}

func Admin(adminID uint) Actor {
	return Actor{AdminID: &adminID}
}

func User(userID uint) Actor {
	return Actor{UserID: &userID}
}

func System() Actor {
	return Actor{Hint: ActorSystem}
}

func AI() Actor {
	return Actor{Hint: ActorAI}
}

type Option func(*model.AuditLog)

func WithIP(ip string) Option {
	return func(log *model.AuditLog) {
		log.IPAddress = ip
	}
}

// NewEntry builds an audit row. A system or AI actor is stored as a metadata hint.
func NewEntry(action string, actor Actor, entityType string, entityID uint, metadata map[string]interface{}, opts ...Option) *model.AuditLog {
	meta := make(map[string]interface{}, len(metadata)+1)
	for k, v := range metadata {
		meta[k] = v
	}
	if actor.Hint != "" {
		meta[metadataActorTypeKey] = string(actor.Hint)
	}

	log := &model.AuditLog{
		Action:       action,
		ActorAdminID: actor.AdminID,
		ActorUserID:  actor.UserID,
		EntityType:   entityType,
	}
	if entityID != 0 {
		log.EntityID = &entityID
	}
	if len(meta) > 0 {
		blob, err := json.Marshal(meta)
		if err == nil {
			log.Metadata = datatypes.JSON(blob)
		}
	}
	for _, opt := range opts {
		opt(log)
	}
	return log
}

// ClassifyActor derives the actor type of a row. A metadata hint naming ai or system
// wins over the foreign keys.
func ClassifyActor(log *model.AuditLog) ActorType {
	switch strings.ToLower(actorHint(log.Metadata)) {
	case "ai":
		return ActorAI
	case "system":
		return ActorSystem
	}
	switch {
	case log.ActorAdminID != nil:
		return ActorAdmin
	case log.ActorUserID != nil:
		return ActorProponent
	default:
		return ActorSystem
	}
}

func actorHint(metadata datatypes.JSON) string {
	if len(metadata) == 0 {
		return ""
	}
	var meta map[string]interface{}
	if err := json.Unmarshal(metadata, &meta); err != nil {
		return ""
	}
	return strings.TrimSpace(cast.ToString(meta[metadataActorTypeKey]))
}

// Entry is an audit row as returned by the API.
type Entry struct {
	*model.AuditLog
	ActorType ActorType `json:"actorType"`
}

func NewEntryView(log *model.AuditLog) *Entry {
	return &Entry{AuditLog: log, ActorType: ClassifyActor(log)}
}
