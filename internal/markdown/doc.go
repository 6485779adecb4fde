// Package markdown wraps the course ingestion engine with filesystem
// discovery, optional YAML front matter, goldmark previews of lesson content
// and a batch importer that hands parsed documents to the course service.
package markdown
