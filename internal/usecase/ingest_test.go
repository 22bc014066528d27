package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"gitlab.com/witness-archive/api/archive-ingest/internal/apperrors"
	"gitlab.com/witness-archive/api/archive-ingest/internal/formdata"
	"gitlab.com/witness-archive/api/archive-ingest/internal/model"
	storagemock "gitlab.com/witness-archive/api/archive-ingest/internal/storage/mock"
	"gitlab.com/witness-archive/api/archive-ingest/pkg/logger"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*IngestService, *storagemock.MemoryIngestRepo) {
	logger.Log = zaptest.NewLogger(t)
	repo := storagemock.NewMemoryIngestRepo()
	svc := NewIngestService(repo)
	svc.now = func() time.Time { return fixedNow }
	return svc, repo
}

func decodePayload(t *testing.T, raw string) map[string]any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var payload map[string]any
	require.NoError(t, dec.Decode(&payload))
	return payload
}

const scenarioPayload = `{
	"Form": {"Id": "12"},
	"Entry": {"Number": "E-100", "InternalLink": "http://x/1"},
	"All": {
		"اسم_المبلغ": "سارة",
		"الموقع": ["خان يونس", "رفح"],
		"الحالة": "",
		"المستضيف": {"الاسم_الكامل": "محمد أحمد", "رقم_الهاتف": "0599000000"},
		"العائلات_المستضافة": [
			{"رقم_التواصل": "0598111111", "عدد_الأفراد": "", "الاحتياجات": {"نوع_المساعدة": "غذاء"}},
			{"رقم_التواصل": "", "عدد_الأفراد": ""}
		],
		"الشهداء": [
			{"الاسم_الكامل": "علي حسن", "العمر": "45", "صورة_الشهيد": {"تحميل": [{"File": "https://cdn/ali.jpg"}]}}
		],
		"مراكز_الإيواء": [
			{
				"مكان_الإيواء": "مدرسة الشاطئ",
				"صور_التوثيق": [{"تحميل": [{"File": "https://cdn/school.jpg"}]}],
				"العائلات_في_المركز": [
					{"عدد_الأفراد": "6", "الإحتياجات": {"الاحتياجات_المطلوبة": ["فرشات", "أغطية"]}}
				]
			}
		]
	}
}`

func TestIngest_EndToEndScenario(t *testing.T) {
	svc, repo := newTestService(t)

	result, err := svc.Ingest(context.Background(), decodePayload(t, scenarioPayload))
	require.NoError(t, err)

	require.Len(t, repo.Entries, 1)
	require.Len(t, repo.Hosts, 1)
	require.Len(t, repo.Martyrs, 1)
	require.Len(t, repo.Shelters, 1)
	require.Len(t, repo.Families, 2)

	entry := repo.Entries[0]
	assert.Equal(t, entry.ID, result.EntryID)
	assert.Equal(t, "12", entry.FormID)
	assert.Equal(t, "E-100", entry.EntryNumber)
	assert.Equal(t, "http://x/1", entry.Permalink)
	assert.Equal(t, fixedNow, entry.DateSubmitted)
	assert.Equal(t, "سارة", formdata.String(entry.Name))
	assert.Equal(t, "خان يونس,رفح", formdata.String(entry.Location))
	assert.Nil(t, entry.Status)

	assert.Equal(t, entry.ID, repo.Hosts[0].EntryID)
	assert.Equal(t, "محمد أحمد", repo.Hosts[0].FullName)

	direct, sheltered := repo.Families[0], repo.Families[1]
	require.NotNil(t, direct.EntryID)
	assert.Equal(t, entry.ID, *direct.EntryID)
	assert.Nil(t, direct.ShelterID)
	assert.Equal(t, "0598111111", formdata.String(direct.Contact))
	assert.Equal(t, "غذاء", formdata.String(direct.AssistanceType))

	martyr := repo.Martyrs[0]
	assert.Equal(t, "علي حسن", martyr.Name)
	assert.Equal(t, 45, martyr.Age)
	assert.JSONEq(t, `["https://cdn/ali.jpg"]`, string(martyr.Images))

	shelter := repo.Shelters[0]
	assert.Equal(t, "مدرسة الشاطئ", shelter.Place)
	assert.JSONEq(t, `["https://cdn/school.jpg"]`, string(shelter.Images))

	assert.Nil(t, sheltered.EntryID)
	require.NotNil(t, sheltered.ShelterID)
	assert.Equal(t, shelter.ID, *sheltered.ShelterID)
	assert.Equal(t, "6", formdata.String(sheltered.IndividualCount))
	assert.Equal(t, "فرشات,أغطية", formdata.String(sheltered.Needs))

	assert.Equal(t, &IngestResult{EntryID: entry.ID, Hosts: 1, Families: 2, Martyrs: 1, Shelters: 1}, result)
}

func TestIngest_DuplicateEntryNumber(t *testing.T) {
	svc, repo := newTestService(t)

	_, err := svc.Ingest(context.Background(), decodePayload(t, scenarioPayload))
	require.NoError(t, err)
	rowsAfterFirst := repo.RowCount()

	result, err := svc.Ingest(context.Background(), decodePayload(t, scenarioPayload))
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, apperrors.IsDuplicateError(err))
	assert.Len(t, repo.Entries, 1)
	assert.Equal(t, rowsAfterFirst, repo.RowCount())
}

func TestIngest_EntryNumbersCompareVerbatim(t *testing.T) {
	svc, repo := newTestService(t)

	_, err := svc.Ingest(context.Background(), model.NewSubmissionPayload("7"))
	require.NoError(t, err)
	_, err = svc.Ingest(context.Background(), model.NewSubmissionPayload("7 "))
	require.NoError(t, err)
	_, err = svc.Ingest(context.Background(), model.NewSubmissionPayload("7 "))
	assert.True(t, apperrors.IsDuplicateError(err))

	require.Len(t, repo.Entries, 2)
	assert.Equal(t, "7", repo.Entries[0].EntryNumber)
	assert.Equal(t, "7 ", repo.Entries[1].EntryNumber)
}

func TestIngest_AtomicOnThirdMartyrFailure(t *testing.T) {
	svc, repo := newTestService(t)
	repo.FailOn["martyr"] = 3

	payload := model.NewSubmissionPayload("E-200")
	all := model.AllSection(payload)
	all[formdata.KeyHost] = model.NewHostNode("مضيف")
	all[formdata.KeyHostedFamilies] = []any{model.NewFamilyNode("0599", "4")}
	all[formdata.KeyShelters] = []any{model.NewShelterNode("مدرسة", model.NewFamilyNode("", "3"))}
	all[formdata.KeyMartyrs] = []any{
		model.NewMartyrNode("الأول", "20"),
		model.NewMartyrNode("الثاني", "30"),
		model.NewMartyrNode("الثالث", "40"),
	}

	result, err := svc.Ingest(context.Background(), payload)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "failed to create martyr")
	assert.Equal(t, 0, repo.RowCount())

	exists, err := repo.EntryNumberExists(context.Background(), "E-200")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestIngest_ValidationGate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(payload map[string]any)
	}{
		{"missing form id", func(p map[string]any) { delete(p, formdata.KeyForm) }},
		{"missing entry number", func(p map[string]any) {
			delete(p[formdata.KeyEntry].(map[string]any), formdata.KeyEntryNumber)
		}},
		{"missing permalink", func(p map[string]any) {
			p[formdata.KeyEntry].(map[string]any)[formdata.KeyInternalLink] = ""
		}},
		{"missing all", func(p map[string]any) { delete(p, formdata.KeyAll) }},
		{"empty all", func(p map[string]any) { p[formdata.KeyAll] = map[string]any{} }},
		{"all is a list", func(p map[string]any) { p[formdata.KeyAll] = []any{"x"} }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			logger.Log = zaptest.NewLogger(t)
			repo := &storagemock.IngestRepoMock{}
			svc := NewIngestService(repo)

			payload := model.NewSubmissionPayload("E-300")
			tc.mutate(payload)

			result, err := svc.Ingest(context.Background(), payload)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, apperrors.IsValidationError(err))
			assert.True(t, apperrors.IsBadRequestError(err))
			repo.AssertNotCalled(t, "EntryNumberExists", mock.Anything, mock.Anything)
			repo.AssertNotCalled(t, "WithinTransaction", mock.Anything, mock.Anything)
		})
	}
}

func TestIngest_DuplicateCheckFails(t *testing.T) {
	logger.Log = zaptest.NewLogger(t)
	repo := &storagemock.IngestRepoMock{}
	svc := NewIngestService(repo)
	dbErr := errors.New("database error: connection refused")

	repo.On("EntryNumberExists", mock.Anything, "E-400").Return(false, dbErr)

	_, err := svc.Ingest(context.Background(), model.NewSubmissionPayload("E-400"))
	require.Error(t, err)
	assert.ErrorIs(t, err, dbErr)
	repo.AssertNotCalled(t, "WithinTransaction", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestIngest_UniqueViolationAtCommitIsDuplicate(t *testing.T) {
	logger.Log = zaptest.NewLogger(t)
	repo := &storagemock.IngestRepoMock{}
	svc := NewIngestService(repo)
	raceErr := errors.Join(errors.New("failed to commit transaction"), apperrors.ErrDuplicate)

	repo.On("EntryNumberExists", mock.Anything, "E-500").Return(false, nil)
	repo.On("WithinTransaction", mock.Anything, mock.Anything).Return(raceErr)

	_, err := svc.Ingest(context.Background(), model.NewSubmissionPayload("E-500"))
	require.Error(t, err)
	assert.True(t, apperrors.IsDuplicateError(err))
	repo.AssertExpectations(t)
}

func TestIngest_StoreErrorStopsProcessing(t *testing.T) {
	logger.Log = zaptest.NewLogger(t)
	store := &storagemock.IngestStoreMock{}
	repo := &storagemock.IngestRepoMock{Store: store}
	svc := NewIngestService(repo)
	hostErr := errors.New("database error: disk full")

	payload := model.NewSubmissionPayload("E-600")
	all := model.AllSection(payload)
	all[formdata.KeyHost] = model.NewHostNode("مضيف")
	all[formdata.KeyMartyrs] = []any{model.NewMartyrNode("شهيد", "33")}

	repo.On("EntryNumberExists", mock.Anything, "E-600").Return(false, nil)
	repo.On("WithinTransaction", mock.Anything, mock.Anything).Return(nil)
	store.On("CreateEntry", mock.Anything, mock.AnythingOfType("*model.Entry")).
		Run(func(args mock.Arguments) { args.Get(1).(*model.Entry).ID = 10 }).
		Return(nil)
	store.On("CreateHost", mock.Anything, mock.MatchedBy(func(h *model.Host) bool {
		return h.EntryID == 10 && h.FullName == "مضيف"
	})).Return(hostErr)

	_, err := svc.Ingest(context.Background(), payload)
	require.Error(t, err)
	assert.ErrorIs(t, err, hostErr)
	assert.Contains(t, err.Error(), "failed to create host")
	store.AssertNotCalled(t, "CreateMartyr", mock.Anything, mock.Anything)
	store.AssertExpectations(t)
}

func TestIngest_PanicInsideTransactionBecomesError(t *testing.T) {
	logger.Log = zaptest.NewLogger(t)
	store := &storagemock.IngestStoreMock{}
	repo := &storagemock.IngestRepoMock{Store: store}
	svc := NewIngestService(repo)

	repo.On("EntryNumberExists", mock.Anything, "E-700").Return(false, nil)
	repo.On("WithinTransaction", mock.Anything, mock.Anything).Return(nil)
	store.On("CreateEntry", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		panic("driver exploded")
	}).Return(nil)

	_, err := svc.Ingest(context.Background(), model.NewSubmissionPayload("E-700"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic recovered: driver exploded")
}

func TestIngest_DateSubmitted(t *testing.T) {
	tests := []struct {
		name     string
		raw      any
		expected time.Time
	}{
		{"rfc3339", "2024-01-02T10:30:00Z", time.Date(2024, 1, 2, 10, 30, 0, 0, time.UTC)},
		{"rfc3339 with offset", "2024-01-02T12:30:00+02:00", time.Date(2024, 1, 2, 10, 30, 0, 0, time.UTC)},
		{"space separated", "2024-01-02 10:30:00", time.Date(2024, 1, 2, 10, 30, 0, 0, time.UTC)},
		{"date only", "2024-01-02", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"absent", nil, fixedNow},
		{"unparseable", "yesterday", fixedNow},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo := newTestService(t)
			payload := model.NewSubmissionPayload("E-800")
			entry := payload[formdata.KeyEntry].(map[string]any)
			if tc.raw == nil {
				delete(entry, formdata.KeyDateSubmitted)
			} else {
				entry[formdata.KeyDateSubmitted] = tc.raw
			}

			_, err := svc.Ingest(context.Background(), payload)
			require.NoError(t, err)
			require.Len(t, repo.Entries, 1)
			assert.True(t, tc.expected.Equal(repo.Entries[0].DateSubmitted), "got %s", repo.Entries[0].DateSubmitted)
		})
	}
}

func TestIngest_SkipsBranchesWithoutRequiredField(t *testing.T) {
	svc, repo := newTestService(t)

	payload := model.NewSubmissionPayload("E-1000")
	all := model.AllSection(payload)
	all[formdata.KeyHost] = model.NewHostNode("")
	all[formdata.KeyMartyrs] = []any{
		model.NewMartyrNode("", "30"),
		model.NewMartyrNode("   ", "31"),
		model.NewMartyrNode("سامي", "32"),
	}
	all[formdata.KeyShelters] = []any{
		model.NewShelterNode("", model.NewFamilyNode("0599", "4"), model.NewFamilyNode("", "2")),
		model.NewShelterNode("مدرسة الرمال", model.NewFamilyNode("0598", "5")),
	}

	result, err := svc.Ingest(context.Background(), payload)
	require.NoError(t, err)

	require.Len(t, repo.Entries, 1)
	assert.Empty(t, repo.Hosts)

	require.Len(t, repo.Martyrs, 1)
	assert.Equal(t, "سامي", repo.Martyrs[0].Name)

	require.Len(t, repo.Shelters, 1)
	assert.Equal(t, "مدرسة الرمال", repo.Shelters[0].Place)
	require.Len(t, repo.Families, 1)
	require.NotNil(t, repo.Families[0].ShelterID)
	assert.Equal(t, repo.Shelters[0].ID, *repo.Families[0].ShelterID)
	assert.Equal(t, "0598", formdata.String(repo.Families[0].Contact))

	assert.Equal(t, &IngestResult{EntryID: repo.Entries[0].ID, Martyrs: 1, Shelters: 1, Families: 1}, result)
}

func TestIngest_ShelterWithoutPlaceWritesNothingBelowIt(t *testing.T) {
	svc, repo := newTestService(t)

	payload := model.NewSubmissionPayload("E-1001")
	all := model.AllSection(payload)
	all[formdata.KeyMartyrs] = []any{model.NewMartyrNode("", "40")}
	all[formdata.KeyShelters] = []any{
		model.NewShelterNode("", model.NewFamilyNode("0599", "4"), model.NewFamilyNode("0597", "6")),
	}

	_, err := svc.Ingest(context.Background(), payload)
	require.NoError(t, err)

	assert.Len(t, repo.Entries, 1)
	assert.Empty(t, repo.Martyrs)
	assert.Empty(t, repo.Shelters)
	assert.Empty(t, repo.Families)
	assert.Equal(t, 1, repo.RowCount())
}

func TestIngest_ConstraintFailureIsNotAValidationError(t *testing.T) {
	logger.Log = zaptest.NewLogger(t)
	store := &storagemock.IngestStoreMock{}
	repo := &storagemock.IngestRepoMock{Store: store}
	svc := NewIngestService(repo)
	constraintErr := fmt.Errorf("%w: constraint violation (23503)", apperrors.ErrBadRequest)

	repo.On("EntryNumberExists", mock.Anything, "E-1100").Return(false, nil)
	repo.On("WithinTransaction", mock.Anything, mock.Anything).Return(nil)
	store.On("CreateEntry", mock.Anything, mock.Anything).Return(constraintErr)

	_, err := svc.Ingest(context.Background(), model.NewSubmissionPayload("E-1100"))
	require.Error(t, err)
	assert.ErrorIs(t, err, constraintErr)
	assert.False(t, apperrors.IsValidationError(err))
	assert.Contains(t, err.Error(), "failed to create entry")
}
