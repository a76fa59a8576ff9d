// Package pipeline runs a catalog through its stages.
//
// A listing run chains FetchStep, NormalizeStep and ExportStep; the plain
// title listing chains FetchStep, FilterTitlesStep and WriteTitlesStep.
// Every step shares one model.Catalog and the pipeline stops at the first
// failing step.
package pipeline
