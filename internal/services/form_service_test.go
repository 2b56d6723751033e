package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/zamzam-app/feedback-service/internal/auth"
	"github.com/zamzam-app/feedback-service/internal/cache"
	"github.com/zamzam-app/feedback-service/internal/forms"
	"github.com/zamzam-app/feedback-service/internal/models"
	"github.com/zamzam-app/feedback-service/internal/repositories"
	"github.com/zamzam-app/feedback-service/internal/validator"
)

func newFormServiceForTest(repo *MockRepository, c *stubCache) FormService {
	return NewFormService(repo, testLogger(), validator.New(), c)
}

func managerSession() *auth.Session {
	return &auth.Session{UserID: "user-42", Role: models.RoleManager, IsActive: true}
}

func ratingQuestion(id string) models.Question {
	return models.Question{
		ID:        id,
		Type:      models.Rating,
		Title:     "Overall Rating",
		Required:  true,
		Protected: true,
		MaxRating: 5,
	}
}

func TestFormService_Create(t *testing.T) {
	mockRepo := newMockRepository()
	cacheStub := newStubCache()
	service := newFormServiceForTest(mockRepo, cacheStub)

	mockRepo.formRepo.On("Create", mock.Anything, mock.MatchedBy(func(form *models.Form) bool {
		return form.Title == "Untitled Form" && len(form.Questions) == 0 && form.CreatedBy == "user-42"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Form).ID = 7
	}).Return(nil)

	form, err := service.Create(context.Background(), managerSession())

	assert.NoError(t, err)
	assert.Equal(t, uint(7), form.ID)
	assert.Contains(t, cacheStub.deletedPatterns, cache.FormListPattern)
	mockRepo.formRepo.AssertExpectations(t)
}

func TestFormService_GetByID(t *testing.T) {
	t.Run("empty form gets the rating seed on open", func(t *testing.T) {
		mockRepo := newMockRepository()
		service := newFormServiceForTest(mockRepo, newStubCache())

		stored := &models.Form{ID: 1, Title: "Visit Feedback", Questions: models.QuestionList{}}
		mockRepo.formRepo.On("GetByID", mock.Anything, uint(1)).Return(stored, nil)

		form, err := service.GetByID(context.Background(), 1)

		assert.NoError(t, err)
		assert.Len(t, form.Questions, 1)
		assert.Equal(t, models.Rating, form.Questions[0].Type)
		assert.True(t, form.Questions[0].Protected)
		assert.Equal(t, forms.SeedMaxRating, form.Questions[0].MaxRating)
	})

	t.Run("legacy seed id is normalized to the protected flag", func(t *testing.T) {
		mockRepo := newMockRepository()
		service := newFormServiceForTest(mockRepo, newStubCache())

		stored := &models.Form{ID: 2, Title: "Visit Feedback", Questions: models.QuestionList{
			{ID: models.LegacySeedQuestionID, Type: models.Rating, Title: "Overall Rating", MaxRating: 5},
		}}
		mockRepo.formRepo.On("GetByID", mock.Anything, uint(2)).Return(stored, nil)

		form, err := service.GetByID(context.Background(), 2)

		assert.NoError(t, err)
		assert.Len(t, form.Questions, 1)
		assert.True(t, form.Questions[0].Protected)
	})

	t.Run("missing form", func(t *testing.T) {
		mockRepo := newMockRepository()
		service := newFormServiceForTest(mockRepo, newStubCache())

		mockRepo.formRepo.On("GetByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)

		_, err := service.GetByID(context.Background(), 99)

		assert.ErrorIs(t, err, ErrFormNotFound)
	})

	t.Run("opened document is cached", func(t *testing.T) {
		mockRepo := newMockRepository()
		service := newFormServiceForTest(mockRepo, newStubCache())

		stored := &models.Form{ID: 1, Title: "Visit Feedback", Questions: models.QuestionList{}}
		mockRepo.formRepo.On("GetByID", mock.Anything, uint(1)).Return(stored, nil).Once()

		first, err := service.GetByID(context.Background(), 1)
		assert.NoError(t, err)

		second, err := service.GetByID(context.Background(), 1)
		assert.NoError(t, err)
		assert.Equal(t, first.Questions, second.Questions)
		mockRepo.formRepo.AssertExpectations(t)
	})

	t.Run("saving clears the cached document", func(t *testing.T) {
		mockRepo := newMockRepository()
		c := newStubCache()
		service := newFormServiceForTest(mockRepo, c)

		stored := &models.Form{ID: 1, Title: "Visit Feedback", Questions: models.QuestionList{ratingQuestion("q-rating")}}
		mockRepo.formRepo.On("GetByID", mock.Anything, uint(1)).Return(stored, nil)
		mockRepo.formRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

		_, err := service.GetByID(context.Background(), 1)
		assert.NoError(t, err)

		_, err = service.Save(context.Background(), 1, &SaveFormRequest{
			Title:     "Renamed",
			Questions: []models.Question{ratingQuestion("q-rating")},
		}, managerSession())
		assert.NoError(t, err)

		assert.Empty(t, c.entries)
	})
}

func TestFormService_Save(t *testing.T) {
	stored := func() *models.Form {
		return &models.Form{
			ID:    1,
			Title: "Visit Feedback",
			Questions: models.QuestionList{
				ratingQuestion("q-rating"),
				{ID: "q-text", Type: models.ShortAnswer, Title: "Anything else?"},
			},
		}
	}

	tests := []struct {
		name       string
		request    *SaveFormRequest
		setupMocks func(*MockFormRepository)
		checkError func(*testing.T, error)
	}{
		{
			name: "successful save",
			request: &SaveFormRequest{
				Title: "Visit Feedback v2",
				Questions: []models.Question{
					ratingQuestion("q-rating"),
					{ID: "q-choice", Type: models.MultipleChoice, Title: "Branch?", Options: []models.Option{
						{ID: "opt-1", Text: "Downtown"},
						{ID: "opt-2", Text: "Airport"},
					}},
				},
			},
			setupMocks: func(m *MockFormRepository) {
				m.On("GetByID", mock.Anything, uint(1)).Return(stored(), nil)
				m.On("Update", mock.Anything, mock.MatchedBy(func(form *models.Form) bool {
					return form.Title == "Visit Feedback v2" && len(form.Questions) == 2
				})).Return(nil)
			},
			checkError: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name: "dropping the protected question is rejected",
			request: &SaveFormRequest{
				Title: "Visit Feedback",
				Questions: []models.Question{
					{ID: "q-text", Type: models.ShortAnswer, Title: "Anything else?"},
				},
			},
			setupMocks: func(m *MockFormRepository) {
				m.On("GetByID", mock.Anything, uint(1)).Return(stored(), nil)
			},
			checkError: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrProtectedQuestion)
			},
		},
		{
			name: "retyping the protected question is rejected",
			request: &SaveFormRequest{
				Title: "Visit Feedback",
				Questions: []models.Question{
					{ID: "q-rating", Type: models.Paragraph, Title: "Overall Rating"},
				},
			},
			setupMocks: func(m *MockFormRepository) {
				m.On("GetByID", mock.Anything, uint(1)).Return(stored(), nil)
			},
			checkError: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrProtectedQuestion)
			},
		},
		{
			name: "structurally invalid questions are rejected",
			request: &SaveFormRequest{
				Title: "Visit Feedback",
				Questions: []models.Question{
					ratingQuestion("q-rating"),
					{ID: "q-choice", Type: models.MultipleChoice, Title: "Branch?"},
				},
			},
			setupMocks: func(m *MockFormRepository) {
				m.On("GetByID", mock.Anything, uint(1)).Return(stored(), nil)
			},
			checkError: func(t *testing.T, err error) {
				assert.True(t, IsValidation(err), "expected validation error, got %v", err)
			},
		},
		{
			name:    "missing title fails struct validation",
			request: &SaveFormRequest{Questions: []models.Question{ratingQuestion("q-rating")}},
			setupMocks: func(m *MockFormRepository) {
			},
			checkError: func(t *testing.T, err error) {
				assert.True(t, IsValidation(err), "expected validation error, got %v", err)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := newMockRepository()
			service := newFormServiceForTest(mockRepo, newStubCache())
			tt.setupMocks(mockRepo.formRepo)

			_, err := service.Save(context.Background(), 1, tt.request, managerSession())

			tt.checkError(t, err)
			mockRepo.formRepo.AssertExpectations(t)
		})
	}
}

func TestFormService_Delete(t *testing.T) {
	t.Run("successful delete invalidates the list cache", func(t *testing.T) {
		mockRepo := newMockRepository()
		cacheStub := newStubCache()
		service := newFormServiceForTest(mockRepo, cacheStub)

		mockRepo.formRepo.On("Exists", mock.Anything, uint(1)).Return(true, nil)
		mockRepo.formRepo.On("Delete", mock.Anything, uint(1)).Return(nil)

		err := service.Delete(context.Background(), 1, managerSession())

		assert.NoError(t, err)
		assert.Contains(t, cacheStub.deletedPatterns, cache.FormListPattern)
		mockRepo.formRepo.AssertExpectations(t)
	})

	t.Run("missing form", func(t *testing.T) {
		mockRepo := newMockRepository()
		service := newFormServiceForTest(mockRepo, newStubCache())

		mockRepo.formRepo.On("Exists", mock.Anything, uint(99)).Return(false, nil)

		err := service.Delete(context.Background(), 99, managerSession())

		assert.ErrorIs(t, err, ErrFormNotFound)
	})
}

func TestFormService_List(t *testing.T) {
	mockRepo := newMockRepository()
	cacheStub := newStubCache()
	service := newFormServiceForTest(mockRepo, cacheStub)

	stored := []*models.Form{
		{ID: 1, Title: "Visit Feedback"},
		{ID: 2, Title: "Delivery Feedback"},
	}
	mockRepo.formRepo.On("List", mock.Anything, repositories.FormFilters{}).Return(stored, int64(2), nil).Once()
	mockRepo.formRepo.On("CountResponses", mock.Anything, []uint{1, 2}).Return(map[uint]int{1: 10, 2: 3}, nil).Once()

	response, err := service.List(context.Background(), repositories.FormFilters{})

	assert.NoError(t, err)
	assert.Len(t, response.Forms, 2)
	assert.Equal(t, int64(2), response.Total)
	assert.Equal(t, 10, response.Forms[0].ResponseCount)

	// Second call must be served from cache; the mocks above allow only
	// one repository hit.
	cached, err := service.List(context.Background(), repositories.FormFilters{})
	assert.NoError(t, err)
	assert.Equal(t, response.Total, cached.Total)
	mockRepo.formRepo.AssertExpectations(t)
}
