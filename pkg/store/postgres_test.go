package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"

	"github.com/syndicate-hq/coordinator/pkg/models"
)

// CreateTransaction maps foreign key violations to ErrIntentNotFound, which
// only works if the migrated schema actually carries a foreign key from
// transactions to intents.
func TestTransactionSchemaDeclaresIntentForeignKey(t *testing.T) {
	s, err := schema.Parse(&models.Transaction{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	rel, ok := s.Relationships.Relations["Intent"]
	require.True(t, ok, "transactions must declare the owning intent association")
	require.Equal(t, schema.BelongsTo, rel.Type)

	require.Len(t, rel.References, 1)
	ref := rel.References[0]
	require.Equal(t, "intent_id", ref.PrimaryKey.DBName)
	require.Equal(t, "intent_id", ref.ForeignKey.DBName)

	require.NotNil(t, rel.ParseConstraint(), "association must emit a foreign key constraint on migration")
}
