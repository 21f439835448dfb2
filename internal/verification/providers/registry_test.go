package providers_test

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"verigate/internal/verification/models"
	"verigate/internal/verification/providers"
	"verigate/internal/verification/providers/mocks"
)

func mockProvider(ctrl *gomock.Controller, id string) *mocks.MockProvider {
	p := mocks.NewMockProvider(ctrl)
	p.EXPECT().ID().Return(id).AnyTimes()
	return p
}

func TestRegistryOrdersIDs(t *testing.T) {
	ctrl := gomock.NewController(t)
	ncte := mockProvider(ctrl, "ncte")
	aicte := mockProvider(ctrl, "aicte")

	reg := providers.NewRegistry(ncte, aicte)
	assert.Equal(t, 2, reg.Len())
	assert.Equal(t, []string{"aicte", "ncte"}, reg.IDs())

	all := reg.All()
	require.Len(t, all, 2)
	assert.Equal(t, "aicte", all[0].ID())

	got, ok := reg.Get("ncte")
	require.True(t, ok)
	assert.Same(t, ncte, got)

	_, ok = reg.Get("cbse")
	assert.False(t, ok)

	err := reg.Register(mockProvider(ctrl, "aicte"))
	assert.ErrorContains(t, err, `"aicte" already registered`)
	assert.Equal(t, 2, reg.Len())
}

func TestNewRegistryPanicsOnDuplicateID(t *testing.T) {
	ctrl := gomock.NewController(t)
	assert.Panics(t, func() {
		providers.NewRegistry(mockProvider(ctrl, "cbse"), mockProvider(ctrl, "cbse"))
	})
}

func TestParseDateLayouts(t *testing.T) {
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{
		"2024-03-15", "15/03/2024", "15-03-2024",
		"2024-03-15T00:00:00", "2024-03-15T00:00:00Z",
		"2024-03-15 00:00:00", "2024-03-15 00:00", "2024-03-15 05:30:00+05:30",
	} {
		got := providers.ParseDate(in)
		require.NotNil(t, got, in)
		assert.True(t, want.Equal(*got), in)
	}
	assert.Nil(t, providers.ParseDate(""))
	assert.Nil(t, providers.ParseDate("March 15"))
}

func TestQueryHelpers(t *testing.T) {
	q := url.Values{}
	providers.PageQuery(q, models.SearchFilters{Limit: 500})
	providers.SetQuery(q, "state", "Kerala")
	providers.SetQuery(q, "district", "")
	providers.SetQueryInt(q, "year_from", 2010)
	providers.SetQueryInt(q, "year_to", 0)

	assert.Equal(t, "1", q.Get("page"))
	assert.Equal(t, "100", q.Get("limit"))
	assert.Equal(t, "Kerala", q.Get("state"))
	assert.False(t, q.Has("district"))
	assert.Equal(t, "2010", q.Get("year_from"))
	assert.False(t, q.Has("year_to"))
}

func TestDecodePayloadWarnsOnMistypedField(t *testing.T) {
	var dst struct {
		Name  string `json:"name"`
		Seats int    `json:"seats"`
	}

	warnings, err := providers.DecodePayload("aicte", []byte(`{"name":"IIT Delhi","seats":"many"}`), &dst)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "seats")

	_, err = providers.DecodePayload("aicte", []byte(`{"name":`), &dst)
	var ne *providers.NormalizationError
	assert.ErrorAs(t, err, &ne)
	assert.Equal(t, models.KindNormalization, models.ErrorKindOf(err))
}

func TestDigitsAndNormalize(t *testing.T) {
	assert.Equal(t, "0712345", providers.Digits(" 07-12 345 "))
	assert.Equal(t, "affiliated", providers.Normalize("  Affiliated "))
	assert.True(t, providers.EmptyPayload([]byte(" null ")))
	assert.False(t, providers.EmptyPayload([]byte(`{"id":1}`)))
}

func TestApplyExpiry(t *testing.T) {
	t.Run("readable date is kept", func(t *testing.T) {
		out := models.CanonicalInstitution{VerificationStatus: models.StatusVerified}
		providers.ApplyExpiry(&out, "expiryDate", "2020-05-31 00:00:00")
		require.NotNil(t, out.Approval.ExpiresAt)
		assert.Equal(t, models.StatusVerified, out.VerificationStatus)
		assert.Empty(t, out.Warnings)

		got := models.NewCanonicalInstitution(out, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
		assert.Equal(t, models.StatusExpired, got.VerificationStatus)
	})

	t.Run("blank date means no expiry", func(t *testing.T) {
		out := models.CanonicalInstitution{VerificationStatus: models.StatusVerified}
		providers.ApplyExpiry(&out, "expiryDate", " ")
		assert.Nil(t, out.Approval.ExpiresAt)
		assert.Equal(t, models.StatusVerified, out.VerificationStatus)
	})

	t.Run("unreadable date demotes verified", func(t *testing.T) {
		out := models.CanonicalInstitution{VerificationStatus: models.StatusVerified}
		providers.ApplyExpiry(&out, "expiryDate", "end of term")
		assert.Nil(t, out.Approval.ExpiresAt)
		assert.Equal(t, models.StatusUnverified, out.VerificationStatus)
		require.Len(t, out.Warnings, 1)
		assert.Contains(t, out.Warnings[0], `"end of term"`)
		assert.Len(t, out.Recommendations, 1)
	})

	t.Run("unreadable date leaves other statuses", func(t *testing.T) {
		out := models.CanonicalInstitution{VerificationStatus: models.StatusRejected}
		providers.ApplyExpiry(&out, "expiryDate", "end of term")
		assert.Equal(t, models.StatusRejected, out.VerificationStatus)
		assert.Len(t, out.Warnings, 1)
		assert.Empty(t, out.Recommendations)
	})
}

func TestMarkIncomplete(t *testing.T) {
	out := models.CanonicalInstitution{InstitutionID: "1-1"}
	providers.MarkIncomplete(&out)
	assert.Equal(t, models.StatusPending, out.VerificationStatus)
	assert.Equal(t, []string{providers.WarnEmptyResponse}, out.Warnings)
	assert.Equal(t, []string{providers.RecommendRetryLater}, out.Recommendations)
}
