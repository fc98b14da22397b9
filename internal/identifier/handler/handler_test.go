package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"formgate/internal/identifier"
	"formgate/internal/identifier/handler/mocks"
	"formgate/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/identifier-mocks.go -package=mocks Service
type IdentifierHandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  chi.Router
}

func TestIdentifierHandlerSuite(t *testing.T) {
	suite.Run(t, new(IdentifierHandlerSuite))
}

func (s *IdentifierHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s.router = chi.NewRouter()
	New(s.service, logger).Register(s.router)
}

func (s *IdentifierHandlerSuite) TestHandleList() {
	s.Run("returns ids as a JSON array", func() {
		s.service.EXPECT().List(gomock.Any()).Return([]string{"abc12345678", "ZZZ00000000"})

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/listid"))

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		s.JSONEq(`["abc12345678","ZZZ00000000"]`, rr.Body.String())
	})

	s.Run("empty registry is an empty array", func() {
		s.service.EXPECT().List(gomock.Any()).Return([]string{})

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/listid"))

		s.JSONEq(`[]`, rr.Body.String())
	})
}

func (s *IdentifierHandlerSuite) TestHandleAdd() {
	s.Run("created", func() {
		s.service.EXPECT().Add(gomock.Any(), "abc12345678").Return(nil)

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/addid", map[string]string{"id": "abc12345678"})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertMessage(s.T(), rr, http.StatusCreated, MessageAdded)
	})

	s.Run("unsaved append still answers created", func() {
		s.service.EXPECT().Add(gomock.Any(), "abc12345678").
			Return(fmt.Errorf("%w: %w", identifier.ErrPersist, errors.New("disk full")))

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/addid", map[string]string{"id": "abc12345678"})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertMessage(s.T(), rr, http.StatusCreated, MessageAdded)
	})

	s.Run("invalid format", func() {
		s.service.EXPECT().Add(gomock.Any(), "short").Return(identifier.ErrInvalidFormat)

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/addid", map[string]string{"id": "short"})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertMessage(s.T(), rr, http.StatusBadRequest, MessageInvalidFormat)
	})

	s.Run("duplicate", func() {
		s.service.EXPECT().Add(gomock.Any(), "abc12345678").Return(identifier.ErrDuplicate)

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/addid", map[string]string{"id": "abc12345678"})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertMessage(s.T(), rr, http.StatusBadRequest, MessageDuplicate)
	})

	s.Run("non-string id is passed on as empty", func() {
		s.service.EXPECT().Add(gomock.Any(), "").Return(identifier.ErrInvalidFormat)

		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/addid", `{"id": 12345678901}`)
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertMessage(s.T(), rr, http.StatusBadRequest, MessageInvalidFormat)
	})

	s.Run("empty body is passed on as empty", func() {
		s.service.EXPECT().Add(gomock.Any(), "").Return(identifier.ErrInvalidFormat)

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodPost, "/addid"))

		testutil.AssertMessage(s.T(), rr, http.StatusBadRequest, MessageInvalidFormat)
	})

	s.Run("malformed body is a generic error", func() {
		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/addid", `{"id":`)
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertMessage(s.T(), rr, http.StatusInternalServerError, "Algo deu errado!")
	})

	s.Run("unexpected service error is a generic error", func() {
		s.service.EXPECT().Add(gomock.Any(), "abc12345678").Return(errors.New("boom"))

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/addid", map[string]string{"id": "abc12345678"})
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertMessage(s.T(), rr, http.StatusInternalServerError, "Algo deu errado!")
	})
}

func (s *IdentifierHandlerSuite) TestHandleDelete() {
	s.Run("deleted", func() {
		s.service.EXPECT().Remove(gomock.Any(), "abc12345678").Return(nil)

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodDelete, "/deleteid/abc12345678"))

		testutil.AssertMessage(s.T(), rr, http.StatusOK, MessageDeleted)
	})

	s.Run("unsaved removal still answers deleted", func() {
		s.service.EXPECT().Remove(gomock.Any(), "abc12345678").
			Return(fmt.Errorf("%w: %w", identifier.ErrPersist, errors.New("disk full")))

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodDelete, "/deleteid/abc12345678"))

		testutil.AssertMessage(s.T(), rr, http.StatusOK, MessageDeleted)
	})

	s.Run("not registered", func() {
		s.service.EXPECT().Remove(gomock.Any(), "nope").Return(identifier.ErrNotFound)

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodDelete, "/deleteid/nope"))

		testutil.AssertMessage(s.T(), rr, http.StatusNotFound, MessageNotFound)
	})
}
