package models

import "strings"

// Resource names a permission-gated area of the back-office.
type Resource string

// Resources guarded by the permission evaluator.
const (
	ResourceEvents    Resource = "events"
	ResourceNews      Resource = "news"
	ResourceQuotes    Resource = "quotes"
	ResourceMembers   Resource = "members"
	ResourceDonations Resource = "donations"
	ResourceSettings  Resource = "settings"
	ResourceAuditLogs Resource = "audit_logs"
	ResourceUsers     Resource = "users"
)

// Resources lists every resource in display order.
var Resources = []Resource{
	ResourceEvents,
	ResourceNews,
	ResourceQuotes,
	ResourceMembers,
	ResourceDonations,
	ResourceSettings,
	ResourceAuditLogs,
	ResourceUsers,
}

var resourceLabels = map[Resource]string{
	ResourceEvents:    "Événements",
	ResourceNews:      "Actualités",
	ResourceQuotes:    "Citations",
	ResourceMembers:   "Membres",
	ResourceDonations: "Dons et Campagnes",
	ResourceSettings:  "Paramètres",
	ResourceAuditLogs: "Journal d'Audit",
	ResourceUsers:     "Gestion des Utilisateurs",
}

// Label returns the human readable name shown on access-denied pages.
func (r Resource) Label() string {
	if label, ok := resourceLabels[r]; ok {
		return label
	}
	return string(r)
}

// ParseResource maps a form or route value onto a known resource.
func ParseResource(value string) (Resource, bool) {
	candidate := Resource(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := resourceLabels[candidate]; ok {
		return candidate, true
	}
	return "", false
}

// Permissions is the fixed capability set attached to every admin user.
type Permissions struct {
	Events    bool `json:"events"`
	News      bool `json:"news"`
	Quotes    bool `json:"quotes"`
	Members   bool `json:"members"`
	Donations bool `json:"donations"`
	Settings  bool `json:"settings"`
	AuditLogs bool `json:"audit_logs"`
	Users     bool `json:"users"`
}

// Named permission sets.
var (
	DefaultPermissions = Permissions{Events: true, News: true, Quotes: true, Members: true, Donations: true}
	AllPermissions     = Permissions{Events: true, News: true, Quotes: true, Members: true, Donations: true, Settings: true, AuditLogs: true, Users: true}
	NoPermissions      = Permissions{}
)

// Allows reports whether the capability for resource is granted.
func (p Permissions) Allows(resource Resource) bool {
	switch resource {
	case ResourceEvents:
		return p.Events
	case ResourceNews:
		return p.News
	case ResourceQuotes:
		return p.Quotes
	case ResourceMembers:
		return p.Members
	case ResourceDonations:
		return p.Donations
	case ResourceSettings:
		return p.Settings
	case ResourceAuditLogs:
		return p.AuditLogs
	case ResourceUsers:
		return p.Users
	default:
		return false
	}
}

// With returns a copy with resource set to granted.
func (p Permissions) With(resource Resource, granted bool) Permissions {
	switch resource {
	case ResourceEvents:
		p.Events = granted
	case ResourceNews:
		p.News = granted
	case ResourceQuotes:
		p.Quotes = granted
	case ResourceMembers:
		p.Members = granted
	case ResourceDonations:
		p.Donations = granted
	case ResourceSettings:
		p.Settings = granted
	case ResourceAuditLogs:
		p.AuditLogs = granted
	case ResourceUsers:
		p.Users = granted
	}
	return p
}

// IsSuperAdmin holds when both settings and users are granted.
func (p Permissions) IsSuperAdmin() bool {
	return p.Settings && p.Users
}

// Granted lists granted resources in display order.
func (p Permissions) Granted() []Resource {
	granted := make([]Resource, 0, len(Resources))
	for _, resource := range Resources {
		if p.Allows(resource) {
			granted = append(granted, resource)
		}
	}
	return granted
}

// PermissionsFromList grants exactly the named resources; unknown names are ignored.
func PermissionsFromList(names []string) Permissions {
	perms := NoPermissions
	for _, name := range names {
		if resource, ok := ParseResource(name); ok {
			perms = perms.With(resource, true)
		}
	}
	return perms
}
