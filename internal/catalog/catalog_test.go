package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DropInService/internal/domain"
)

func TestDefinition_Shower(t *testing.T) {
	c := Default()

	def, err := c.Definition(domain.ServiceShower, "", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, def.Capacity)
	assert.True(t, def.Slotted)
	assert.Equal(t, DefaultShowerSlots, def.SlotIDs)
	assert.True(t, def.Contains("08:00"))
	assert.False(t, def.Contains("08:15"))
}

func TestDefinition_LaundryCapacityFollowsSettings(t *testing.T) {
	c := Default()

	def, err := c.Definition(domain.ServiceLaundry, domain.LaundryOnsite, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultMaxOnsiteLaundrySlots, def.Capacity)

	def, err = c.Definition(domain.ServiceLaundry, domain.LaundryOnsite, &domain.Settings{MaxOnsiteLaundrySlots: 8})
	require.NoError(t, err)
	assert.Equal(t, 8, def.Capacity)
	assert.Equal(t, DefaultLaundrySlots, def.SlotIDs)
}

func TestDefinition_OffsiteIsUnslotted(t *testing.T) {
	def, err := Default().Definition(domain.ServiceLaundry, domain.LaundryOffsite, domain.DefaultSettings())
	require.NoError(t, err)
	assert.False(t, def.Slotted)
	assert.Empty(t, def.SlotIDs)
}

func TestDefinition_ReturnsCopy(t *testing.T) {
	c := Default()
	def, err := c.Definition(domain.ServiceShower, "", nil)
	require.NoError(t, err)

	def.SlotIDs[0] = "00:00"
	assert.True(t, c.HasSlot(domain.ServiceShower, "07:30"))
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil, 2, DefaultLaundrySlots)
	assert.ErrorIs(t, err, ErrEmptyCatalog)

	_, err = New([]string{"08:00", "08:00"}, 2, DefaultLaundrySlots)
	assert.ErrorIs(t, err, ErrDuplicateSlot)

	_, err = New(DefaultShowerSlots, 0, DefaultLaundrySlots)
	assert.ErrorIs(t, err, ErrInvalidCapacity)
}

func TestHasSlot(t *testing.T) {
	c := Default()
	assert.True(t, c.HasSlot(domain.ServiceLaundry, "08:30 - 09:45"))
	assert.False(t, c.HasSlot(domain.ServiceLaundry, "08:00"))
	assert.False(t, c.HasSlot("bike", "08:00"))
}
