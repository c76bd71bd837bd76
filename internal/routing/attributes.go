package routing

import "github.com/tidwall/gjson"

// AgentRole is the worker role that marks a customer-service agent.
// Matched workers without it are never reported.
const AgentRole = "Agent"

// AgentAttributes is the typed view of a worker's loosely-typed attributes
// payload. Missing fields decode to their zero values.
type AgentAttributes struct {
	Email  string
	Roles  []string
	Skills []string
}

// DecodeAgentAttributes extracts email, roles and routing skills from the
// raw attributes JSON. Malformed payloads yield empty attributes rather
// than an error: a worker with undecodable attributes simply never matches.
func DecodeAgentAttributes(raw string) AgentAttributes {
	attrs := AgentAttributes{}
	if !gjson.Valid(raw) {
		return attrs
	}

	attrs.Email = gjson.Get(raw, "email").String()
	for _, role := range gjson.Get(raw, "roles").Array() {
		attrs.Roles = append(attrs.Roles, role.String())
	}
	for _, skill := range gjson.Get(raw, "routing.skills").Array() {
		attrs.Skills = append(attrs.Skills, skill.String())
	}
	return attrs
}

// HasRole reports whether the worker carries the given role.
func (a AgentAttributes) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}
