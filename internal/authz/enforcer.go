package authz

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"yamdb/internal/microservices/http-api/models"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

var (
	ErrUnauthorized = errors.New("authentication credentials were not provided")
	ErrForbidden    = errors.New("you do not have permission to perform this action")
)

type Resource string

const (
	ResourceCategories Resource = "categories"
	ResourceGenres     Resource = "genres"
	ResourceTitles     Resource = "titles"
	ResourceReviews    Resource = "reviews"
	ResourceComments   Resource = "comments"
	ResourceUsers      Resource = "users"
	ResourceMe         Resource = "me"
)

type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

const (
	SubjectAnonymous = "anonymous"

	ownershipOwn   = "own"
	ownershipOther = "other"
)

// Enforcer wraps the Casbin enforcer with the yamdb request shape.
type Enforcer struct {
	enforcer *casbin.SyncedEnforcer
}

// NewEnforcer builds an enforcer from the embedded model and policy.
func NewEnforcer() (*Enforcer, error) {
	m, err := model.NewModelFromString(embeddedModel)
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}

	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err == nil {
		err = loadEmbeddedPolicy(enforcer, embeddedPolicy)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	return &Enforcer{enforcer: enforcer}, nil
}

// loadEmbeddedPolicy parses and loads the embedded policy CSV.
func loadEmbeddedPolicy(enforcer *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		ptype, rule := parts[0], parts[1:]
		switch {
		case ptype == "p" && len(rule) == 4:
			if _, err := enforcer.AddPolicy(rule[0], rule[1], rule[2], rule[3]); err != nil {
				return fmt.Errorf("failed to add policy %v: %w", rule, err)
			}
		case ptype == "g" && len(rule) == 2:
			if _, err := enforcer.AddGroupingPolicy(rule[0], rule[1]); err != nil {
				return fmt.Errorf("failed to add grouping policy %v: %w", rule, err)
			}
		default:
			return fmt.Errorf("malformed policy line %q", line)
		}
	}
	return nil
}

// Subject maps an actor onto a policy role. nil is anonymous.
func Subject(actor *models.User) string {
	switch {
	case actor == nil:
		return SubjectAnonymous
	case actor.IsAdmin():
		return string(models.RoleAdmin)
	case actor.Role.Valid():
		return string(actor.Role)
	default:
		return string(models.RoleUser)
	}
}

// Authorize returns nil when actor may perform action on resource.
// ownerID is the author of the target object, or "" for collection-level checks.
func (e *Enforcer) Authorize(actor *models.User, resource Resource, action Action, ownerID string) error {
	own := ownershipOther
	if actor != nil && ownerID != "" && actor.ID == ownerID {
		own = ownershipOwn
	}

	allowed, err := e.enforcer.Enforce(Subject(actor), string(resource), string(action), own)
	if err != nil {
		return fmt.Errorf("enforcement failed: %w", err)
	}
	if allowed {
		return nil
	}
	if actor == nil {
		return ErrUnauthorized
	}
	return ErrForbidden
}
