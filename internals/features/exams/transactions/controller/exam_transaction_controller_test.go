package controller_test

import (
	"bytes"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"examku_backend/internals/features/exams/proctoring/pairing"
	"examku_backend/internals/features/exams/transactions/dto"
	"examku_backend/internals/features/exams/transactions/repository"
	"examku_backend/internals/features/exams/transactions/route"
	"examku_backend/internals/features/exams/transactions/service"
	helper "examku_backend/internals/helpers"
	examSeeds "examku_backend/internals/seeds/exams"
)

const seedFile = "../../../../seeds/exams/data_exams.json"

type envelope[T any] struct {
	Success    bool                `json:"success"`
	Message    string              `json:"message"`
	ErrorCode  string              `json:"error_code"`
	Errors     map[string][]string `json:"errors"`
	Data       T                   `json:"data"`
	Pagination *helper.Pagination  `json:"pagination"`
}

func newApp(t *testing.T) (*fiber.App, *repository.MemoryStore) {
	t.Helper()
	ms := repository.NewMemoryStore()
	require.NoError(t, examSeeds.FillMemoryStore(ms, seedFile))

	logger, _ := test.NewNullLogger()
	svc := service.NewAllocationService(ms, time.FixedZone("WIB", 7*3600), pairing.DefaultOptions(), logrus.NewEntry(logger))
	svc.Now = func() time.Time { return time.Date(2025, 4, 30, 9, 0, 0, 0, time.UTC) }

	v := validator.New()
	require.NoError(t, dto.RegisterValidators(v))

	app := fiber.New(fiber.Config{
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
		ErrorHandler: helper.FiberErrorHandler,
	})
	route.ExamTransactionRoutes(app.Group("/api/exams"), svc, v)
	return app, ms
}

func call[T any](t *testing.T, app *fiber.App, method, path string, body any) (int, envelope[T]) {
	t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = bytes.NewBufferString(b)
	default:
		raw, err := sonic.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope[T]
	require.NoError(t, sonic.Unmarshal(raw, &env), string(raw))
	return resp.StatusCode, env
}

func codes(rows []dto.ExamTransactionResponse) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.TransactionCode)
	}
	return out
}

func TestListAll(t *testing.T) {
	app, _ := newApp(t)

	status, env := call[[]dto.ExamTransactionResponse](t, app, "GET", "/api/exams/transactions", nil)

	assert.Equal(t, fiber.StatusOK, status)
	assert.True(t, env.Success)
	assert.Len(t, env.Data, 12)
	require.NotNil(t, env.Pagination)
	assert.EqualValues(t, 12, env.Pagination.Total)
	assert.Equal(t, "Financial Accounting", env.Data[0].SubjectName)
}

func TestListFiltered(t *testing.T) {
	app, _ := newApp(t)

	_, env := call[[]dto.ExamTransactionResponse](t, app, "GET", "/api/exams/transactions?room=601&date=2025-05-02", nil)
	assert.Equal(t, []string{"TH001", "TH003"}, codes(env.Data))

	// blank criteria are not applied
	_, env = call[[]dto.ExamTransactionResponse](t, app, "GET", "/api/exams/transactions?room=&proctor=2501000002", nil)
	assert.Equal(t, []string{"TH009"}, codes(env.Data))

	_, env = call[[]dto.ExamTransactionResponse](t, app, "GET", "/api/exams/transactions?room=999", nil)
	assert.Empty(t, env.Data)
}

func TestListPaging(t *testing.T) {
	app, _ := newApp(t)

	_, env := call[[]dto.ExamTransactionResponse](t, app, "GET", "/api/exams/transactions?per_page=5&page=3", nil)

	assert.Equal(t, []string{"TH011", "TH012"}, codes(env.Data))
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 3, env.Pagination.TotalPages)
	assert.True(t, env.Pagination.HasPrev)
	assert.False(t, env.Pagination.HasNext)

	status, env := call[[]dto.ExamTransactionResponse](t, app, "GET", "/api/exams/transactions?page=4611686018427387905&per_page=3", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, env.Data)
}

func TestCreate(t *testing.T) {
	app, ms := newApp(t)

	status, env := call[dto.AllocateExamResponse](t, app, "POST", "/api/exams/transactions", fiber.Map{
		"subject_code": "ACCT6300003",
		"class_codes":  []string{"LA01"},
		"date":         "2025-05-10",
		"shift_code":   "1",
		"room_number":  "601",
	})

	require.Equal(t, fiber.StatusCreated, status, env.Message)
	assert.Regexp(t, `^TH\d{6}$`, env.Data.TransactionCode)
	got, ok := ms.Transaction(env.Data.TransactionCode)
	require.True(t, ok)
	assert.Equal(t, "2025-05-10", got.DateString())

	_, list := call[[]dto.ExamTransactionResponse](t, app, "GET", "/api/exams/transactions?date=2025-05-10", nil)
	assert.Equal(t, []string{env.Data.TransactionCode}, codes(list.Data))
}

func TestCreateConflict(t *testing.T) {
	app, _ := newApp(t)

	status, env := call[any](t, app, "POST", "/api/exams/transactions", fiber.Map{
		"subject_code": "COMP6047001",
		"date":         "2025-05-02",
		"shift_code":   "1",
		"room_number":  "601",
	})

	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "CONFLICT", env.ErrorCode)
	assert.Contains(t, env.Message, "TH001")
}

func TestCreateValidation(t *testing.T) {
	app, ms := newApp(t)

	status, env := call[any](t, app, "POST", "/api/exams/transactions", fiber.Map{
		"subject_code": "ACCT6300003",
		"date":         "02-05-2025",
		"shift_code":   "1",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, []string{"exam_date"}, env.Errors["date"])
	assert.Equal(t, []string{"required"}, env.Errors["room_number"])

	status, env = call[any](t, app, "POST", "/api/exams/transactions", fiber.Map{
		"subject_code": "ACCT6300003",
		"date":         "2025-04-30",
		"shift_code":   "1",
		"room_number":  "601",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, env.Message, "after today")

	status, _ = call[any](t, app, "POST", "/api/exams/transactions", "{not json")
	assert.Equal(t, fiber.StatusBadRequest, status)

	all, _ := ms.FetchTransactions(t.Context())
	assert.Len(t, all, 12)
}

func TestAssignProctor(t *testing.T) {
	app, ms := newApp(t)

	status, _ := call[any](t, app, "PUT", "/api/exams/transactions/TH001/proctor", fiber.Map{"assistant_nim": "2501000003"})
	assert.Equal(t, fiber.StatusOK, status)
	got, _ := ms.Transaction("TH001")
	assert.Equal(t, "2501000003", got.ProctorNIM())

	status, _ = call[any](t, app, "PUT", "/api/exams/transactions/TH001/proctor", fiber.Map{"assistant_nim": "2601000001"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)

	status, env := call[any](t, app, "PUT", "/api/exams/transactions/TH999/proctor", fiber.Map{"assistant_nim": "2501000001"})
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", env.ErrorCode)

	status, _ = call[any](t, app, "PUT", "/api/exams/transactions/TH001/proctor", fiber.Map{})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
}

func TestOccupancy(t *testing.T) {
	app, _ := newApp(t)

	status, env := call[dto.OccupancyResponse](t, app, "GET", "/api/exams/occupancy?date=2025-05-02", nil)

	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "2025-05-02", env.Data.Date)
	assert.Len(t, env.Data.Rows, 5)
	assert.Len(t, env.Data.Occupied, 4)
	assert.Equal(t, 31, env.Data.FreeCount)
	assert.True(t, env.Data.Rows[0].Shifts["1"])
	assert.False(t, env.Data.Rows[0].Shifts["3"])
	assert.Equal(t, 4, env.Data.OccupiedCount)
	assert.Equal(t, []string{"603", "710", "711"}, env.Data.FreeRooms["1"])
	assert.Equal(t, []string{"601", "602", "603", "710", "711"}, env.Data.FreeRooms["7"])

	status, env = call[dto.OccupancyResponse](t, app, "GET", "/api/exams/occupancy", nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.NotEmpty(t, env.Errors["date"])
}
