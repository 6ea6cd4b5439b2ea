package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

type indexedModel struct {
	ID        string `bson:"_id,omitempty"`
	Email     string `bson:"email" index:"unique,sparse"`
	CompanyID string `bson:"companyId" index:"single:1;compound:company_user_unique"`
	UserID    string `bson:"userId" index:"compound:company_user_unique"`
	CreatedAt int64  `bson:"createdAt" index:"single:-1"`
	ExpiresAt int64  `bson:"expiresAt" index:"ttl:3600"`
	Note      string `bson:"-" index:"unique"`
	Plain     string `bson:"plain"`
}

func TestIndexSpecsFromModel(t *testing.T) {
	specs, err := IndexSpecsFromModel(&indexedModel{})
	require.NoError(t, err)

	byName := map[string]IndexSpec{}
	for _, s := range specs {
		byName[s.Name] = s
	}
	require.Len(t, byName, 5)

	email := byName["email_unique"]
	assert.True(t, email.Unique)
	assert.True(t, email.Sparse)

	comp := byName["company_user_unique"]
	assert.True(t, comp.Unique)
	assert.Equal(t, bson.D{{Key: "companyId", Value: 1}, {Key: "userId", Value: 1}}, comp.Keys)

	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, byName["createdAt_single"].Keys)
	require.NotNil(t, byName["expiresAt_ttl"].TTLSecond)
	assert.Equal(t, int32(3600), *byName["expiresAt_ttl"].TTLSecond)
	assert.Contains(t, byName, "companyId_single")
}

func TestIndexSpecsFromModel_NotStruct(t *testing.T) {
	_, err := IndexSpecsFromModel(42)
	assert.Error(t, err)
	_, err = IndexSpecsFromModel(nil)
	assert.Error(t, err)
}

func TestIndexSpec_Matches(t *testing.T) {
	spec := IndexSpec{Name: "email_unique", Keys: bson.D{{Key: "email", Value: 1}}, Unique: true, Sparse: true}

	assert.True(t, spec.Matches(bson.M{"key": bson.M{"email": int32(1)}, "unique": true, "sparse": true}))
	assert.False(t, spec.Matches(bson.M{"key": bson.M{"email": int32(1)}, "unique": true}))
	assert.False(t, spec.Matches(bson.M{"key": bson.M{"email": int32(-1)}, "unique": true, "sparse": true}))
	assert.False(t, spec.Matches(bson.M{"key": bson.M{"email": int32(1), "x": int32(1)}, "unique": true, "sparse": true}))
}

func TestParseIndexTag(t *testing.T) {
	got := parseIndexTag("unique,sparse;compound:a_unique,order:-1")
	assert.Equal(t, []map[string]string{
		{"unique": "", "sparse": ""},
		{"compound": "a_unique", "order": "-1"},
	}, got)
	assert.Equal(t, -1, parseOrder("-1"))
	assert.Equal(t, 1, parseOrder(""))
}
