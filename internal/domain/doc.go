// Package domain models lead service line (LSL) inventory and replacement data
// reported by community water systems.
//
// # Data Source
//
// Records originate from a hand-curated spreadsheet combining the state
// drinking water inventory with annual LSL replacement reports. It is exported
// as CSV with one row per water system, keyed by its Public Water System ID
// (PWSID). The header names drift between snapshots, so every column is looked
// up through a [ColumnMap].
//
// # Spreadsheet Conventions
//
// Numeric cells:
//
//	Thousands separators and stray quotes: "1,234" or "\"1,234\"" → 1234.
//	Percent-decorated values: "56%" → 56.
//	"-" (sometimes padded, e.g. "-   ") and empty cells mean zero.
//	Anything that still fails to parse is treated as zero, never an error.
//
// Material categories:
//
//	Lead Lines – service lines containing any lead.
//	GPCL       – galvanized pipe requiring replacement because it was
//	             downstream of lead.
//	Unknown    – lines of unverified material, pending inspection.
//
// "Total To Replace" is usually the sum of the three categories. When the
// column is blank or zero it is recomputed from them; a reported zero and a
// missing value cannot be told apart after cleaning.
//
// Status labels:
//
//	Assigned upstream from a four-year average replacement rate (≥20%
//	compliant, <20% not compliant) plus a few inventory states. The labels are
//	consumed as-is and never recomputed here. See [Status].
//
// Coordinates:
//
//	Latitude/longitude of the system's service area. A zero in either column
//	means the system was not geolocated.
//
// # Ranking
//
// [Rank] filters records for one of four view modes and orders them. Two views
// carry a composite default order that applies only while the caller's sort
// still equals [DefaultSort] for that view.
package domain
