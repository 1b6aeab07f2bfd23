package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"notesapp/internal/server/app"
	"notesapp/internal/server/domain/entities"
	"notesapp/internal/server/ports/repositories"
)

func newNoteUseCase() (*app.NoteUseCase, *mockNoteRepository, *mockShareRepository, *mockUserRepository) {
	noteRepo := new(mockNoteRepository)
	shareRepo := new(mockShareRepository)
	userRepo := new(mockUserRepository)
	return app.NewNoteUseCase(noteRepo, shareRepo, userRepo), noteRepo, shareRepo, userRepo
}

func TestCreateNote(t *testing.T) {
	userID := "user-1"
	now := time.Now()

	tests := []struct {
		name         string
		title        string
		category     entities.Category
		tags         []string
		setupMocks   func(noteRepo *mockNoteRepository)
		expectedErr  error
		verifyResult func(t *testing.T, note *entities.Note)
	}{
		{
			name:     "success - category defaults to personal",
			title:    "Shopping",
			category: "",
			setupMocks: func(noteRepo *mockNoteRepository) {
				noteRepo.On("Create", mock.Anything, mock.MatchedBy(func(n *entities.Note) bool {
					return n.Category == entities.CategoryPersonal && n.Title == "Shopping"
				})).Return(&entities.Note{
					ID:        "note-1",
					UserID:    userID,
					Title:     "Shopping",
					Category:  entities.CategoryPersonal,
					Tags:      []string{},
					CreatedAt: now,
					UpdatedAt: now,
				}, nil).Once()
			},
			verifyResult: func(t *testing.T, note *entities.Note) {
				t.Helper()
				assert.Equal(t, "note-1", note.ID)
				assert.Equal(t, entities.CategoryPersonal, note.Category)
			},
		},
		{
			name:     "success - duplicate tags are dropped preserving order",
			title:    "Tagged",
			category: entities.CategoryWork,
			tags:     []string{"go", "web", "go", "Go"},
			setupMocks: func(noteRepo *mockNoteRepository) {
				noteRepo.On("Create", mock.Anything, mock.MatchedBy(func(n *entities.Note) bool {
					return assert.ObjectsAreEqual([]string{"go", "web", "Go"}, n.Tags)
				})).Return(&entities.Note{
					ID:       "note-2",
					UserID:   userID,
					Title:    "Tagged",
					Category: entities.CategoryWork,
					Tags:     []string{"go", "web", "Go"},
				}, nil).Once()
			},
			verifyResult: func(t *testing.T, note *entities.Note) {
				t.Helper()
				assert.Equal(t, []string{"go", "web", "Go"}, note.Tags)
			},
		},
		{
			name:        "error - empty title",
			title:       "",
			setupMocks:  func(*mockNoteRepository) {},
			expectedErr: entities.ErrEmptyTitle,
		},
		{
			name:        "error - unknown category",
			title:       "Misc",
			category:    entities.Category("archive"),
			setupMocks:  func(*mockNoteRepository) {},
			expectedErr: entities.ErrInvalidCategory,
		},
	}

	for _, ttt := range tests {
		t.Run(ttt.name, func(t *testing.T) {
			useCase, noteRepo, _, _ := newNoteUseCase()
			ttt.setupMocks(noteRepo)

			note, err := useCase.CreateNote(context.Background(), userID, ttt.title, "content", ttt.category, ttt.tags)

			if ttt.expectedErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, ttt.expectedErr)
				assert.Nil(t, note)
			} else {
				require.NoError(t, err)
				require.NotNil(t, note)
				ttt.verifyResult(t, note)
			}

			noteRepo.AssertExpectations(t)
		})
	}
}

func TestListNotesPassesFilterThrough(t *testing.T) {
	useCase, noteRepo, _, _ := newNoteUseCase()

	filter := repositories.NoteFilter{Category: "work", Search: "plan"}
	expected := []*entities.Note{{ID: "note-1", Title: "Project plan"}}
	noteRepo.On("ListByUserID", mock.Anything, "user-1", filter).Return(expected, nil).Once()

	notes, err := useCase.ListNotes(context.Background(), "user-1", filter)
	require.NoError(t, err)
	assert.Equal(t, expected, notes)

	noteRepo.AssertExpectations(t)
}

func TestUpdateNote(t *testing.T) {
	userID := "user-1"
	noteID := "note-1"

	current := func() *entities.Note {
		return &entities.Note{
			ID:       noteID,
			UserID:   userID,
			Title:    "original",
			Content:  "original content",
			Category: entities.CategoryPersonal,
			Tags:     []string{"old"},
			Favorite: false,
		}
	}

	title := "renamed"
	emptyTitle := ""
	favorite := true
	badCategory := entities.Category("archive")

	tests := []struct {
		name         string
		patch        *app.NotePatch
		setupMocks   func(noteRepo *mockNoteRepository)
		expectedErr  error
		verifyResult func(t *testing.T, note *entities.Note)
	}{
		{
			name:  "success - partial patch merges onto current state",
			patch: &app.NotePatch{Title: &title, Favorite: &favorite},
			setupMocks: func(noteRepo *mockNoteRepository) {
				noteRepo.On("GetByID", mock.Anything, noteID, userID).Return(current(), nil).Once()
				noteRepo.On("Update", mock.Anything, mock.MatchedBy(func(n *entities.Note) bool {
					// Незатронутые поля сохраняются.
					return n.Title == "renamed" && n.Favorite &&
						n.Content == "original content" && n.Category == entities.CategoryPersonal
				})).Return(&entities.Note{
					ID:       noteID,
					UserID:   userID,
					Title:    "renamed",
					Content:  "original content",
					Category: entities.CategoryPersonal,
					Tags:     []string{"old"},
					Favorite: true,
				}, nil).Once()
			},
			verifyResult: func(t *testing.T, note *entities.Note) {
				t.Helper()
				assert.Equal(t, "renamed", note.Title)
				assert.True(t, note.Favorite)
				assert.Equal(t, "original content", note.Content)
			},
		},
		{
			name:  "error - empty title rejected",
			patch: &app.NotePatch{Title: &emptyTitle},
			setupMocks: func(noteRepo *mockNoteRepository) {
				noteRepo.On("GetByID", mock.Anything, noteID, userID).Return(current(), nil).Once()
			},
			expectedErr: entities.ErrEmptyTitle,
		},
		{
			name:  "error - unknown category rejected",
			patch: &app.NotePatch{Category: &badCategory},
			setupMocks: func(noteRepo *mockNoteRepository) {
				noteRepo.On("GetByID", mock.Anything, noteID, userID).Return(current(), nil).Once()
			},
			expectedErr: entities.ErrInvalidCategory,
		},
		{
			name:  "error - note not found",
			patch: &app.NotePatch{Title: &title},
			setupMocks: func(noteRepo *mockNoteRepository) {
				noteRepo.On("GetByID", mock.Anything, noteID, userID).
					Return(nil, entities.ErrNoteNotFound).Once()
			},
			expectedErr: entities.ErrNoteNotFound,
		},
	}

	for _, ttt := range tests {
		t.Run(ttt.name, func(t *testing.T) {
			useCase, noteRepo, _, _ := newNoteUseCase()
			ttt.setupMocks(noteRepo)

			note, err := useCase.UpdateNote(context.Background(), userID, noteID, ttt.patch)

			if ttt.expectedErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, ttt.expectedErr)
				assert.Nil(t, note)
			} else {
				require.NoError(t, err)
				require.NotNil(t, note)
				ttt.verifyResult(t, note)
			}

			noteRepo.AssertExpectations(t)
		})
	}
}

func TestDeleteNote(t *testing.T) {
	tests := []struct {
		name        string
		setupMocks  func(noteRepo *mockNoteRepository)
		expectedErr error
	}{
		{
			name: "success",
			setupMocks: func(noteRepo *mockNoteRepository) {
				noteRepo.On("Delete", mock.Anything, "note-1", "user-1").Return(nil).Once()
			},
		},
		{
			name: "error - note not found",
			setupMocks: func(noteRepo *mockNoteRepository) {
				noteRepo.On("Delete", mock.Anything, "note-1", "user-1").
					Return(entities.ErrNoteNotFound).Once()
			},
			expectedErr: entities.ErrNoteNotFound,
		},
	}

	for _, ttt := range tests {
		t.Run(ttt.name, func(t *testing.T) {
			useCase, noteRepo, _, _ := newNoteUseCase()
			ttt.setupMocks(noteRepo)

			err := useCase.DeleteNote(context.Background(), "user-1", "note-1")

			if ttt.expectedErr != nil {
				assert.ErrorIs(t, err, ttt.expectedErr)
			} else {
				require.NoError(t, err)
			}

			noteRepo.AssertExpectations(t)
		})
	}
}

func TestShareNote(t *testing.T) {
	ownerID := "user-1"
	noteID := "note-1"
	recipientEmail := "friend@example.com"

	ownedNote := &entities.Note{ID: noteID, UserID: ownerID, Title: "mine"}
	recipient := &entities.User{ID: "user-2", Email: recipientEmail}

	tests := []struct {
		name        string
		permission  entities.Permission
		setupMocks  func(noteRepo *mockNoteRepository, shareRepo *mockShareRepository, userRepo *mockUserRepository)
		expectedErr error
	}{
		{
			name:       "success - grant created",
			permission: entities.PermissionView,
			setupMocks: func(noteRepo *mockNoteRepository, shareRepo *mockShareRepository, userRepo *mockUserRepository) {
				noteRepo.On("GetByID", mock.Anything, noteID, ownerID).Return(ownedNote, nil).Once()
				userRepo.On("FindByEmail", mock.Anything, recipientEmail).Return(recipient, nil).Once()
				shareRepo.On("ExistsForRecipient", mock.Anything, noteID, recipient.ID).Return(false, nil).Once()
				shareRepo.On("Create", mock.Anything, mock.MatchedBy(func(g *entities.ShareGrant) bool {
					return g.NoteID == noteID && g.RecipientID == recipient.ID && g.Permission == entities.PermissionView
				})).Return(&entities.ShareGrant{
					ID:          "grant-1",
					NoteID:      noteID,
					RecipientID: recipient.ID,
					Permission:  entities.PermissionView,
				}, nil).Once()
			},
		},
		{
			name:        "error - invalid permission",
			permission:  entities.Permission("owner"),
			setupMocks:  func(*mockNoteRepository, *mockShareRepository, *mockUserRepository) {},
			expectedErr: entities.ErrInvalidPermission,
		},
		{
			name:       "error - sharing someone else's note",
			permission: entities.PermissionView,
			setupMocks: func(noteRepo *mockNoteRepository, _ *mockShareRepository, _ *mockUserRepository) {
				noteRepo.On("GetByID", mock.Anything, noteID, ownerID).
					Return(nil, entities.ErrNoteNotFound).Once()
			},
			expectedErr: entities.ErrNoteNotFound,
		},
		{
			name:       "error - recipient not found",
			permission: entities.PermissionEdit,
			setupMocks: func(noteRepo *mockNoteRepository, _ *mockShareRepository, userRepo *mockUserRepository) {
				noteRepo.On("GetByID", mock.Anything, noteID, ownerID).Return(ownedNote, nil).Once()
				userRepo.On("FindByEmail", mock.Anything, recipientEmail).
					Return(nil, entities.ErrUserNotFound).Once()
			},
			expectedErr: entities.ErrUserNotFound,
		},
		{
			name:       "error - sharing with yourself",
			permission: entities.PermissionView,
			setupMocks: func(noteRepo *mockNoteRepository, _ *mockShareRepository, userRepo *mockUserRepository) {
				noteRepo.On("GetByID", mock.Anything, noteID, ownerID).Return(ownedNote, nil).Once()
				userRepo.On("FindByEmail", mock.Anything, recipientEmail).
					Return(&entities.User{ID: ownerID, Email: recipientEmail}, nil).Once()
			},
			expectedErr: entities.ErrShareToSelf,
		},
		{
			name:       "error - already shared with recipient",
			permission: entities.PermissionView,
			setupMocks: func(noteRepo *mockNoteRepository, shareRepo *mockShareRepository, userRepo *mockUserRepository) {
				noteRepo.On("GetByID", mock.Anything, noteID, ownerID).Return(ownedNote, nil).Once()
				userRepo.On("FindByEmail", mock.Anything, recipientEmail).Return(recipient, nil).Once()
				shareRepo.On("ExistsForRecipient", mock.Anything, noteID, recipient.ID).Return(true, nil).Once()
			},
			expectedErr: entities.ErrAlreadyShared,
		},
	}

	for _, ttt := range tests {
		t.Run(ttt.name, func(t *testing.T) {
			useCase, noteRepo, shareRepo, userRepo := newNoteUseCase()
			ttt.setupMocks(noteRepo, shareRepo, userRepo)

			grant, err := useCase.ShareNote(context.Background(), ownerID, noteID, recipientEmail, ttt.permission)

			if ttt.expectedErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, ttt.expectedErr)
				assert.Nil(t, grant)
			} else {
				require.NoError(t, err)
				require.NotNil(t, grant)
				assert.Equal(t, "grant-1", grant.ID)
			}

			noteRepo.AssertExpectations(t)
			shareRepo.AssertExpectations(t)
			userRepo.AssertExpectations(t)
		})
	}
}

func TestMarkSharedRead(t *testing.T) {
	useCase, _, shareRepo, _ := newNoteUseCase()
	shareRepo.On("MarkRead", mock.Anything, "note-1", "user-2").Return(nil).Once()

	require.NoError(t, useCase.MarkSharedRead(context.Background(), "user-2", "note-1"))
	shareRepo.AssertExpectations(t)
}
