package catalog

import "github.com/nbamra/folio-bff/model"

// StaticWorkHistory is the bundled work-history default. The work page
// must render even when the content service is down, so the fallback
// chain serves this copy.
func StaticWorkHistory() []model.Item {
	return []model.Item{
		{
			"_id":       "work-senior-eng",
			"company":   "Northwind Systems",
			"role":      "Senior Software Engineer",
			"startDate": "2022-03",
			"endDate":   "",
			"summary":   "Platform team. API gateways, service reliability, on-call rotation.",
		},
		{
			"_id":       "work-backend-eng",
			"company":   "Brightline Labs",
			"role":      "Backend Engineer",
			"startDate": "2019-07",
			"endDate":   "2022-02",
			"summary":   "Built and ran the billing pipeline and its reporting services.",
		},
		{
			"_id":       "work-fullstack",
			"company":   "Harbor Digital",
			"role":      "Full-Stack Developer",
			"startDate": "2017-01",
			"endDate":   "2019-06",
			"summary":   "Client projects across e-commerce and publishing.",
		},
		{
			"_id":       "work-intern",
			"company":   "Civic Data Co-op",
			"role":      "Software Engineering Intern",
			"startDate": "2016-05",
			"endDate":   "2016-09",
			"summary":   "Open-data dashboards for municipal datasets.",
		},
	}
}
