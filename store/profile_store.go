package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/agentciril/portfolio-chat/models"
)

// ProfileStore reads and writes portfolio profiles.
type ProfileStore struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewProfileStore(db *sqlx.DB, logger *zap.Logger) *ProfileStore {
	return &ProfileStore{db: db, logger: logger}
}

type profileRow struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	Name        string    `db:"name"`
	Location    string    `db:"location"`
	Bio         string    `db:"bio"`
	Skills      string    `db:"skills"`
	Experience  string    `db:"experience"`
	Projects    string    `db:"projects"`
	Interests   string    `db:"interests"`
	ProjectList string    `db:"project_list"`
	UpdatedAt   time.Time `db:"updated_at"`
}

const profileColumns = `id, user_id, name, location, bio, skills, experience, projects, interests, project_list, updated_at`

// Get returns the profile for userID, or the most recently updated profile
// when userID is empty. A missing profile yields (nil, nil).
func (s *ProfileStore) Get(ctx context.Context, userID string) (*models.Profile, error) {
	var row profileRow
	var err error
	if userID == "" {
		err = s.db.GetContext(ctx, &row,
			`SELECT `+profileColumns+` FROM profiles ORDER BY updated_at DESC LIMIT 1`)
	} else {
		err = s.db.GetContext(ctx, &row,
			`SELECT `+profileColumns+` FROM profiles WHERE user_id = ? LIMIT 1`, userID)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	return s.toProfile(row), nil
}

// Upsert creates or replaces the profile keyed by user_id.
func (s *ProfileStore) Upsert(ctx context.Context, profile *models.Profile) error {
	if profile.UserID == "" {
		return fmt.Errorf("profile user_id is required")
	}
	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	profile.UpdatedAt = time.Now().UTC()

	projectList, err := json.Marshal(profile.ProjectList)
	if err != nil {
		return fmt.Errorf("encode project list: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO profiles (id, user_id, name, location, bio, skills, experience, projects, interests, project_list, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			name = excluded.name,
			location = excluded.location,
			bio = excluded.bio,
			skills = excluded.skills,
			experience = excluded.experience,
			projects = excluded.projects,
			interests = excluded.interests,
			project_list = excluded.project_list,
			updated_at = excluded.updated_at`,
		profile.ID, profile.UserID, profile.Name, profile.Location, profile.Bio,
		profile.Skills, profile.Experience, profile.Projects, profile.Interests,
		string(projectList), profile.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

func (s *ProfileStore) toProfile(row profileRow) *models.Profile {
	profile := &models.Profile{
		ID:         row.ID,
		UserID:     row.UserID,
		Name:       row.Name,
		Location:   row.Location,
		Bio:        row.Bio,
		Skills:     row.Skills,
		Experience: row.Experience,
		Projects:   row.Projects,
		Interests:  row.Interests,
		UpdatedAt:  row.UpdatedAt,
	}
	if row.ProjectList != "" {
		if err := json.Unmarshal([]byte(row.ProjectList), &profile.ProjectList); err != nil {
			// A bad project list should not hide the rest of the profile.
			s.logger.Warn("could not decode stored project list",
				zap.String("user_id", row.UserID), zap.Error(err))
		}
	}
	return profile
}
