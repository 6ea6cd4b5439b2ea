package companysvc

import (
	"context"
	"testing"

	"engagement_survey/internal/api/base/service/mocks"
	models "engagement_survey/internal/api/company/models"
	"engagement_survey/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCompanyName(t *testing.T) {
	store := mocks.NewMongo[models.Company](t)
	svc := NewCompanyService(store)
	id := primitive.NewObjectID()

	store.On("FindOneById", mock.Anything, id).Return(models.Company{ID: id, Name: " Acme ", Status: models.CompanyStatusActive}, nil).Once()
	name, err := svc.CompanyName(context.Background(), id.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Acme", name)

	store.On("FindOneById", mock.Anything, id).Return(models.Company{ID: id, Status: models.CompanyStatusDisabled}, nil).Once()
	_, err = svc.CompanyName(context.Background(), id.Hex())
	assert.Equal(t, common.StatusConflict, common.StatusOf(err))
}

func TestRequireActive_InvalidID(t *testing.T) {
	svc := NewCompanyService(mocks.NewMongo[models.Company](t))
	_, err := svc.RequireActive(context.Background(), "not-an-id")
	assert.Equal(t, common.StatusBadRequest, common.StatusOf(err))
}
