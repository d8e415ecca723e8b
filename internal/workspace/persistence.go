package workspace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-scribe/internal/document"
	"github.com/goliatone/go-scribe/internal/domain"
	"github.com/goliatone/go-scribe/internal/storage"
)

func (s *service) loadProject(ctx context.Context, id string) (*domain.Project, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrProjectNotFound
	}
	raw, err := s.store.Load(ctx, storage.ProjectKey(id))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, id)
		}
		return nil, err
	}
	var project domain.Project
	if err := json.Unmarshal(raw, &project); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrProjectCorrupted, id, err)
	}
	repairCurrentBreak(&project)
	return &project, nil
}

func (s *service) loadProjects(ctx context.Context) ([]*domain.Project, error) {
	keys, err := s.store.Keys(ctx, storage.ProjectPrefix)
	if err != nil {
		return nil, err
	}
	projects := make([]*domain.Project, 0, len(keys))
	for _, key := range keys {
		id, ok := storage.ProjectIDFromKey(key)
		if !ok {
			continue
		}
		project, err := s.loadProject(ctx, id)
		if err != nil {
			if errors.Is(err, ErrProjectCorrupted) {
				s.logger.Warn("workspace.project.skipped", "project_id", id, "error", err)
				continue
			}
			if errors.Is(err, ErrProjectNotFound) {
				continue
			}
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, nil
}

// saveProject sanitises every break and writes the whole project value.
func (s *service) saveProject(ctx context.Context, project *domain.Project) error {
	for i := range project.Breaks {
		content, _, changed := document.SanitizeContent(project.Breaks[i].Content)
		if changed {
			s.logger.Warn("workspace.break.content_sanitized",
				"project_id", project.ID,
				"break_id", project.Breaks[i].ID,
			)
			project.Breaks[i].Content = content
			project.Breaks[i].WordCount = 0
		}
	}
	repairCurrentBreak(project)
	if err := project.Validate(); err != nil {
		return err
	}
	raw, err := json.Marshal(project)
	if err != nil {
		return fmt.Errorf("workspace: encode project %s: %w", project.ID, err)
	}
	return s.store.Save(ctx, storage.ProjectKey(project.ID), raw)
}

func (s *service) currentProjectID(ctx context.Context) (string, error) {
	raw, err := s.store.Load(ctx, storage.CurrentProjectKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

func (s *service) setCurrentProject(ctx context.Context, id string) error {
	return s.store.Save(ctx, storage.CurrentProjectKey, []byte(id))
}

// storeAndSelect writes project and makes it current. When the selection
// cannot be written the project value is removed again, so callers never see
// a stored project they were told failed.
func (s *service) storeAndSelect(ctx context.Context, project *domain.Project) error {
	if err := s.saveProject(ctx, project); err != nil {
		return err
	}
	if err := s.setCurrentProject(ctx, project.ID); err != nil {
		if rollbackErr := s.store.Delete(ctx, storage.ProjectKey(project.ID)); rollbackErr != nil && !isStoreMiss(rollbackErr) {
			return errors.Join(err, rollbackErr)
		}
		return err
	}
	return nil
}

// repairCurrentBreak points a project with breaks at its first break when the
// stored pointer is missing or dangling, and clears it on empty projects.
func repairCurrentBreak(project *domain.Project) {
	if len(project.Breaks) == 0 {
		project.CurrentBreakID = nil
		return
	}
	if project.CurrentBreakID == nil || project.BreakIndex(*project.CurrentBreakID) < 0 {
		project.SetCurrentBreak(project.Breaks[0].ID)
	}
}
