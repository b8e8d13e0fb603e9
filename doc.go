// Package excelcy is the Composition Root for the excelcy application.
//
// It stores annotation data for training a named-entity-recognition model:
// raw sources, prepare directives that pre-annotate entities, and training
// examples (text plus gold entity spans). The data lives in YAML, JSON or
// XLSX files and is normalized into an ordered, in-memory Storage.
//
// Layout:
//
//   - pkg/core: Storage, its records and collections, the ordered Mapping payload.
//   - pkg/adapters/fs: file formats (YAML, JSON, XLSX), atomic saves, file watching.
//   - pkg/trainer: sources and prepares to golds, and training runs of an external NLP engine.
//
// Usage:
//
//	svc, err := excelcy.Open(ctx, "data/people.xlsx", excelcy.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	train := svc.Storage().Train.Add("Barack Obama was president", "")
//	train.Add("Barack Obama", "0:12", "PERSON", "")
//	err = svc.Save(ctx, "data/people.yml")
package excelcy
