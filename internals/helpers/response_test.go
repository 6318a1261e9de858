package helper

import (
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"examku_backend/internals/constants"
)

func TestStatusFromError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{constants.ErrInvalidDate, fiber.StatusUnprocessableEntity},
		{fmt.Errorf("%w: TH001", constants.ErrAllocationConflict), fiber.StatusConflict},
		{constants.ErrSessionNotFound, fiber.StatusNotFound},
		{fiber.NewError(fiber.StatusBadRequest, "bad"), fiber.StatusBadRequest},
		{errors.New("db down"), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusFromError(tc.err), tc.err.Error())
	}
}

func TestFieldErrors(t *testing.T) {
	type req struct {
		SubjectCode string `validate:"required"`
		RoomNumber  string `validate:"required,max=3"`
	}
	err := validator.New().Struct(req{RoomNumber: "12345"})

	fields, ok := FieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, []string{"required"}, fields["subject_code"])
	assert.Equal(t, []string{"max=3"}, fields["room_number"])

	_, ok = FieldErrors(errors.New("plain"))
	assert.False(t, ok)
}

func TestPageSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	page, pg := PageSlice(items, Paging{Page: 2, PerPage: 2, Offset: 2, Limit: 2})
	assert.Equal(t, []int{3, 4}, page)
	assert.Equal(t, 3, pg.TotalPages)
	assert.True(t, pg.HasNext)
	assert.True(t, pg.HasPrev)
	assert.Equal(t, 2, pg.Count)

	page, pg = PageSlice(items, Paging{Page: 9, PerPage: 2, Offset: 16, Limit: 2})
	assert.Empty(t, page)
	assert.EqualValues(t, 5, pg.Total)

	page, _ = PageSlice(items, Paging{Page: 1, PerPage: 2, Offset: -4, Limit: 2})
	assert.Equal(t, []int{1, 2}, page)
}

func TestHugePageDoesNotPanic(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	app := fiber.New(fiber.Config{JSONEncoder: sonic.Marshal, JSONDecoder: sonic.Unmarshal})
	app.Get("/", func(c *fiber.Ctx) error {
		p := ResolvePaging(c, 20, 200)
		assert.GreaterOrEqual(t, p.Offset, 0)
		page, pg := PageSlice(items, p)
		return JsonList(c, "ok", page, &pg)
	})

	for _, q := range []string{
		"page=4611686018427387905&per_page=3",
		"page=99999999999999999999999&per_page=1",
		"page=-7",
	} {
		resp, err := app.Test(httptest.NewRequest("GET", "/?"+q, nil))
		require.NoError(t, err, q)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, q)
	}
}

func TestJsonFromErrorHidesInternalMessage(t *testing.T) {
	app := fiber.New(fiber.Config{JSONEncoder: sonic.Marshal, JSONDecoder: sonic.Unmarshal})
	app.Get("/boom", func(c *fiber.Ctx) error { return JsonFromError(c, errors.New("dial tcp 10.0.0.1")) })
	app.Get("/conflict", func(c *fiber.Ctx) error { return JsonFromError(c, constants.ErrAllocationConflict) })

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	var body ErrorResponse
	require.NoError(t, sonic.ConfigDefault.NewDecoder(resp.Body).Decode(&body))
	assert.NotContains(t, body.Message, "10.0.0.1")
	assert.Equal(t, "INTERNAL_ERROR", body.ErrorCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/conflict", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}
