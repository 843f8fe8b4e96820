package psqlbuilder

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelect_DollarPlaceholders(t *testing.T) {
	query, args, err := Select("id", "resource_id").
		From("recurring_series").
		Where(squirrel.Eq{"is_active": true}).
		Where(squirrel.LtOrEq{"generated_until": "2026-01-01"}).
		ToSql()

	require.NoError(t, err)
	assert.Equal(t, "SELECT id, resource_id FROM recurring_series WHERE is_active = $1 AND generated_until <= $2", query)
	assert.Equal(t, []interface{}{true, "2026-01-01"}, args)
}

func TestUpdate_DollarPlaceholders(t *testing.T) {
	query, args, err := Update("recurring_series").
		Set("is_active", false).
		Where(squirrel.Eq{"id": int64(3)}).
		ToSql()

	require.NoError(t, err)
	assert.Equal(t, "UPDATE recurring_series SET is_active = $1 WHERE id = $2", query)
	assert.Equal(t, []interface{}{false, int64(3)}, args)
}
