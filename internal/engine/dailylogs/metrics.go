package dailylogs

// Per-service metric field catalogs. The field set for a service slug is
// fixed; unknown slugs get an empty set and are reported as not configured.
var metricCatalog = map[string][]string{
	"linkedin_outreach": {
		"connection_requests_sent",
		"accepted",
		"replies",
		"messages_sent",
		"meetings_booked",
	},
	"seo": {
		"keywords_tracked",
		"articles_optimized",
		"backlinks_built",
		"site_audits",
	},
	"email_marketing": {
		"emails_sent",
		"opens",
		"clicks",
		"replies",
		"unsubscribes",
	},
	"content_writing": {
		"articles_drafted",
		"articles_published",
		"words_written",
	},
	"cold_calling": {
		"calls_made",
		"conversations",
		"meetings_booked",
	},
	"paid_ads": {
		"campaigns_active",
		"impressions",
		"clicks",
		"conversions",
	},
}

// DefaultMetrics returns a zeroed metrics map for the service slug and
// whether the slug is configured at all.
func DefaultMetrics(slug string) (Metrics, bool) {
	fields, ok := metricCatalog[slug]
	m := make(Metrics, len(fields))
	for _, f := range fields {
		m[f] = 0
	}
	return m, ok
}

// MetricFields lists the catalog field order for a slug, for rendering.
func MetricFields(slug string) []string {
	return metricCatalog[slug]
}
