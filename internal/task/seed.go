package task

import (
	"context"

	"armbuilder/internal/model"
)

// SeedDemo appends a short starter program: a move to (1.0, 0.5, 0.2) m
// followed by a grip at default force.
func SeedDemo(ctx context.Context, repo Repo) error {
	mv, err := repo.Append(ctx, model.KindMove)
	if err != nil {
		return err
	}
	for key, v := range map[string]float64{"x": 1.0, "y": 0.5, "z": 0.2} {
		if _, _, err := repo.UpdateParameter(ctx, mv.ID, key, v); err != nil {
			return err
		}
	}
	_, err = repo.Append(ctx, model.KindGrip)
	return err
}
