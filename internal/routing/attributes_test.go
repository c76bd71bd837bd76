package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeAgentAttributes(t *testing.T) {
	raw := `{"email":"john@co.com","roles":["Agent","Supervisor"],"routing":{"skills":["english","billing"]}}`

	attrs := DecodeAgentAttributes(raw)

	assert.Equal(t, "john@co.com", attrs.Email)
	assert.Equal(t, []string{"Agent", "Supervisor"}, attrs.Roles)
	assert.Equal(t, []string{"english", "billing"}, attrs.Skills)
}

func TestDecodeAgentAttributes_MissingFieldsDefaultEmpty(t *testing.T) {
	attrs := DecodeAgentAttributes(`{}`)

	assert.Empty(t, attrs.Email)
	assert.Empty(t, attrs.Roles)
	assert.Empty(t, attrs.Skills)
}

func TestDecodeAgentAttributes_MalformedPayload(t *testing.T) {
	attrs := DecodeAgentAttributes(`{"email": "broken`)

	assert.Empty(t, attrs.Email)
	assert.False(t, attrs.HasRole(AgentRole))
}

func TestDecodeAgentAttributes_MissingRoutingSection(t *testing.T) {
	attrs := DecodeAgentAttributes(`{"email":"a@b.com","roles":["Agent"]}`)

	assert.True(t, attrs.HasRole(AgentRole))
	assert.Empty(t, attrs.Skills)
}

func TestHasRole(t *testing.T) {
	attrs := AgentAttributes{Roles: []string{"Supervisor"}}

	assert.True(t, attrs.HasRole("Supervisor"))
	assert.False(t, attrs.HasRole(AgentRole))
}
