// Package config decodes the YAML documents read by the gwcond command:
// analysis parameters, segment flags, sampled series and trigger lists.
//
// Every document is plain data. Conversions into the library types
// ([Analysis.Conditioning], [FlagSpec.ToFlag], [SeriesDocument.ToSeries])
// run the library's own validation, so a document that decodes cleanly can
// still be rejected there. JSON documents are accepted as well.
package config
