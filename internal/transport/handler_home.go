package transport

import (
	"net/http"
	"time"

	"github.com/nbamra/folio-bff/internal/loader"
	"github.com/nbamra/folio-bff/internal/observability"
	"github.com/nbamra/folio-bff/model"
)

// homeSection is the per-collection slice of the home payload. A section
// with Error set renders its inline "could not load" state; it never hides
// the siblings that did load.
type homeSection struct {
	Items []model.Item `json:"items"`
	Error string       `json:"error,omitempty"`
}

type homeResponse struct {
	Projects         homeSection    `json:"projects"`
	Experience       homeSection    `json:"experience"`
	Skills           homeSection    `json:"skills"`
	SkillsByCategory loader.Grouped `json:"skillsByCategory"`
}

// handleHome batch-loads the three home page collections in parallel and
// applies the derived steps: experience sorted most recent first, skills
// grouped by category.
func handleHome(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := observability.StartSpan(r.Context(), "home.batch")
		defer span.End()

		home := deps.Config.Collections.Home
		start := time.Now()
		entries := deps.Loader.LoadBatch(ctx, []loader.BatchRequest{
			{Collection: "projects", Limit: home.ProjectsLimit},
			{Collection: "experience", Limit: home.ExperienceLimit},
			{Collection: "skills", Limit: home.SkillsLimit},
		}, deps.Config.Collections.BatchTimeout)

		if deps.Metrics != nil {
			var failed []string
			for name, entry := range entries {
				if entry.Error != "" {
					failed = append(failed, name)
				}
			}
			deps.Metrics.RecordBatch(time.Since(start), failed)
		}

		experience := entries["experience"]
		experience.Items = loader.SortByStartDate(experience.Items, "startDate")

		skills := entries["skills"]

		resp := homeResponse{
			Projects:         section(entries["projects"]),
			Experience:       section(experience),
			Skills:           section(skills),
			SkillsByCategory: loader.GroupByCategory(skills.Items, "category", "Other"),
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func section(entry loader.BatchEntry) homeSection {
	return homeSection{Items: entry.Items, Error: entry.Error}
}
