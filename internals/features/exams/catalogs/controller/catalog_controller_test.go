package controller_test

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogModel "examku_backend/internals/features/exams/catalogs/model"
	"examku_backend/internals/features/exams/catalogs/route"
	"examku_backend/internals/features/exams/proctoring/pairing"
	"examku_backend/internals/features/exams/transactions/repository"
	"examku_backend/internals/features/exams/transactions/service"
	examSeeds "examku_backend/internals/seeds/exams"
)

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	ms := repository.NewMemoryStore()
	require.NoError(t, examSeeds.FillMemoryStore(ms, "../../../../seeds/exams/data_exams.json"))

	logger, _ := test.NewNullLogger()
	svc := service.NewAllocationService(ms, time.UTC, pairing.DefaultOptions(), logrus.NewEntry(logger))

	app := fiber.New(fiber.Config{JSONEncoder: sonic.Marshal, JSONDecoder: sonic.Unmarshal})
	route.CatalogRoutes(app.Group("/api/exams"), svc)
	return app
}

func get[T any](t *testing.T, app *fiber.App, path string) (int, T) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env struct {
		Data T `json:"data"`
	}
	require.NoError(t, sonic.Unmarshal(raw, &env), string(raw))
	return resp.StatusCode, env.Data
}

func TestRoomsSortedByNumber(t *testing.T) {
	status, rooms := get[[]catalogModel.RoomModel](t, newApp(t), "/api/exams/rooms")

	require.Equal(t, fiber.StatusOK, status)
	require.Len(t, rooms, 5)
	assert.Equal(t, "601", rooms[0].RoomNumber)
	assert.Equal(t, "711", rooms[4].RoomNumber)
}

func TestShifts(t *testing.T) {
	type shift struct {
		ShiftCode string `json:"shift_code"`
	}
	status, shifts := get[[]shift](t, newApp(t), "/api/exams/shifts")

	require.Equal(t, fiber.StatusOK, status)
	require.Len(t, shifts, 7)
	assert.Equal(t, "1", shifts[0].ShiftCode)
}

func TestSubjectEnrollments(t *testing.T) {
	app := newApp(t)

	_, subjects := get[[]catalogModel.SubjectModel](t, app, "/api/exams/subjects")
	assert.Len(t, subjects, 3)

	_, rows := get[[]catalogModel.EnrollmentModel](t, app, "/api/exams/subjects/ACCT6300003/enrollments")
	require.Len(t, rows, 2)
	assert.Equal(t, "LA01", rows[0].ClassCode)
	assert.Equal(t, "LA02", rows[1].ClassCode)

	_, none := get[[]catalogModel.EnrollmentModel](t, app, "/api/exams/subjects/NOPE/enrollments")
	assert.Empty(t, none)
}

func TestAssistantsOnly(t *testing.T) {
	_, users := get[[]catalogModel.UserModel](t, newApp(t), "/api/exams/assistants")

	require.Len(t, users, 3)
	for _, u := range users {
		assert.True(t, u.IsAssistant(), u.NIM)
	}
}

func TestUsersDirectory(t *testing.T) {
	app := newApp(t)
	names := func(us []catalogModel.UserModel) []string {
		out := make([]string, 0, len(us))
		for _, u := range us {
			out = append(out, u.Name)
		}
		return out
	}

	status, all := get[[]catalogModel.UserModel](t, app, "/api/exams/users")
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, all, 6)

	_, rows := get[[]catalogModel.UserModel](t, app, "/api/exams/users?q=an")
	assert.Equal(t, []string{"Andi Wijaya", "Budi Santoso"}, names(rows))

	_, rows = get[[]catalogModel.UserModel](t, app, "/api/exams/users?role=Student")
	assert.Equal(t, []string{"Citra Lestari", "Eko Prasetyo"}, names(rows))

	_, rows = get[[]catalogModel.UserModel](t, app, "/api/exams/users?role=Exam%20Coordinator")
	assert.Equal(t, []string{"Fajar Nugroho"}, names(rows))

	_, rows = get[[]catalogModel.UserModel](t, app, "/api/exams/users?initial=24-1&role=Assistant")
	assert.Equal(t, []string{"Andi Wijaya", "Budi Santoso"}, names(rows))

	_, rows = get[[]catalogModel.UserModel](t, app, "/api/exams/users?per_page=2&page=3")
	assert.Equal(t, []string{"Eko Prasetyo", "Fajar Nugroho"}, names(rows))

	status, _ = get[any](t, app, "/api/exams/users?role=Janitor")
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
}
