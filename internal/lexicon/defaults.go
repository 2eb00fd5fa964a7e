package lexicon

// DefaultTables returns a fresh copy of the built-in tables.
func DefaultTables() Tables {
	return Tables{
		Synonyms: map[string]string{
			"javascript":       "JavaScript",
			"js":               "JavaScript",
			"node js":          "Node.js",
			"node":             "Node.js",
			"python":           "Python",
			"python3":          "Python",
			"python 3.11":      "Python",
			"react":            "React",
			"typescript":       "TypeScript",
			"ml":               "Machine Learning",
			"machine learning": "Machine Learning",
			"data analysis":    "Data Analysis",
			"team leadership":  "Leadership",
			"led team":         "Leadership",
		},
		Roles: map[string][]string{
			"data scientist":            {"python", "pandas", "numpy", "sql", "statistics", "machine learning"},
			"data analyst":              {"sql", "excel", "data analysis", "statistics"},
			"machine learning engineer": {"python", "machine learning", "pytorch", "tensorflow"},
			"software engineer":         {"python", "javascript", "typescript", "git", "testing"},
			"backend engineer":          {"python", "node.js", "sql", "docker", "kubernetes"},
			"frontend engineer":         {"javascript", "typescript", "react", "css"},
		},
		Seniority: map[string][]string{
			"junior": {"git", "collaboration"},
			"mid":    {"ownership"},
			"senior": {"leadership", "architecture", "mentoring"},
			"lead":   {"leadership", "mentoring", "strategy"},
		},
	}
}

// Default returns the built-in lexicon.
func Default() *Lexicon {
	return MustNew(DefaultTables(), "builtin")
}
