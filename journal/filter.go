package journal

import (
	"slices"
)

type FilterRecordTypeString = string
type FilterKeyString = string
type FilterValString = string

/***** Filter *****/

type Filter struct {
	items []FilterItem
}

func (f Filter) Items() []FilterItem {
	return f.items
}

/***** FilterItem *****/

type FilterItem struct {
	recordTypes            []FilterRecordTypeString
	predicates             []FilterPredicate
	allPredicatesMustMatch bool
}

func (fi FilterItem) RecordTypes() []FilterRecordTypeString {
	return fi.recordTypes
}

func (fi FilterItem) Predicates() []FilterPredicate {
	return fi.predicates
}

func (fi FilterItem) AllPredicatesMustMatch() bool {
	return fi.allPredicatesMustMatch
}

/***** FilterPredicate *****/

type FilterPredicate struct {
	key FilterKeyString
	val FilterValString
}

func P(key FilterKeyString, val FilterValString) FilterPredicate {
	return FilterPredicate{key: key, val: val}
}

func (fp FilterPredicate) Key() FilterKeyString {
	return fp.key
}

func (fp FilterPredicate) Val() FilterValString {
	return fp.val
}

/***** FilterBuilder *****/

// FilterBuilder builds a generic record filter to be used in DB type-specific journal implementations to build queries for
// the specific query language, e.g.: Postgres, Mysql, MongoDB, ...
// It is designed with the idea to only allow "useful" filter combinations for journal reads:
//
//   - empty filter
//   - (recordType)
//   - (recordType OR recordType...)
//   - (predicate)
//   - (predicate OR predicate...)
//   - (predicate AND predicate...)
//   - (recordType AND predicate)
//   - (recordType AND (predicate OR predicate...))
//   - (recordType AND (predicate AND predicate...))
//   - ((recordType OR recordType...) AND (predicate OR predicate...))
//   - ((recordType OR recordType...) AND (predicate AND predicate...))
//   - ((recordType AND predicate) OR (recordType AND predicate)...) -> multiple FilterItem(s)
type FilterBuilder interface {
	// Matching starts a new FilterItem.
	Matching() EmptyFilterItemBuilder

	// MatchingAnyRecord directly creates an empty Filter.
	MatchingAnyRecord() Filter
}

type EmptyFilterItemBuilder interface {
	// AnyRecordTypeOf adds one or multiple RecordTypes to the current FilterItem.
	//
	// It sanitizes the input:
	//	- removing empty RecordTypes ("")
	//	- sorting the RecordTypes
	//	- removing duplicate RecordTypes
	AnyRecordTypeOf(recordType FilterRecordTypeString, recordTypes ...FilterRecordTypeString) FilterItemBuilderLackingPredicates

	// AnyPredicateOf adds one or multiple FilterPredicate(s) to the current FilterItem.
	//
	// It sanitizes the input:
	//	- removing empty/partial FilterPredicate(s) (key or val is "")
	//	- sorting the FilterPredicate(s)
	//	- removing duplicate FilterPredicate(s)
	AnyPredicateOf(predicate FilterPredicate, predicates ...FilterPredicate) FilterItemBuilderLackingRecordTypes

	AllPredicatesOf(predicate FilterPredicate, predicates ...FilterPredicate) FilterItemBuilderLackingRecordTypes
}

type FilterItemBuilderLackingPredicates interface {
	// AndAnyPredicateOf adds one or multiple FilterPredicate(s) to the current FilterItem.
	//
	// It sanitizes the input:
	//	- removing empty/partial FilterPredicate(s) (key or val is "")
	//	- sorting the FilterPredicate(s)
	//	- removing duplicate FilterPredicate(s)

	AndAnyPredicateOf(predicate FilterPredicate, predicates ...FilterPredicate) CompletedFilterItemBuilder

	AndAllPredicatesOf(predicate FilterPredicate, predicates ...FilterPredicate) CompletedFilterItemBuilder

	// OrMatching finalizes the current FilterItem and starts a new one.
	OrMatching() EmptyFilterItemBuilder

	// Finalize returns the Filter once it has at least one FilterItem with at least one RecordType OR one Predicate.
	Finalize() Filter
}

type FilterItemBuilderLackingRecordTypes interface {
	// AndAnyRecordTypeOf adds one or multiple RecordTypes to the current FilterItem.
	//
	// It sanitizes the input:
	//	- removing empty RecordTypes ("")
	//	- sorting the RecordTypes
	//	- removing duplicate RecordTypes
	AndAnyRecordTypeOf(recordType FilterRecordTypeString, recordTypes ...FilterRecordTypeString) CompletedFilterItemBuilder

	// OrMatching finalizes the current FilterItem and starts a new one.
	OrMatching() EmptyFilterItemBuilder

	// Finalize returns the Filter once it has at least one FilterItem with at least one RecordType OR one Predicate.
	Finalize() Filter
}

type CompletedFilterItemBuilder interface {
	// OrMatching finalizes the current FilterItem and starts a new one.
	OrMatching() EmptyFilterItemBuilder

	// Finalize returns the Filter once it has at least one FilterItem with at least one RecordType OR one Predicate.
	Finalize() Filter
}

// filterBuilder implements all the interfaces of FilterBuilder
type filterBuilder struct {
	filter            Filter
	currentFilterItem FilterItem
}

// BuildRecordFilter creates a FilterBuilder which must eventually be finalized with Finalize() or MatchingAnyRecord().
func BuildRecordFilter() FilterBuilder {
	return filterBuilder{}
}

// Matching starts a new FilterItem.
func (fb filterBuilder) Matching() EmptyFilterItemBuilder {
	fb.currentFilterItem = FilterItem{}

	return fb
}

// AnyRecordTypeOf adds one or multiple RecordTypes to the current FilterItem expecting ANY RecordType to match.
//
// It sanitizes the input:
//   - removing empty RecordTypes ("")
//   - sorting the RecordTypes
//   - removing duplicate RecordTypes
func (fb filterBuilder) AnyRecordTypeOf(
	recordType FilterRecordTypeString,
	recordTypes ...FilterRecordTypeString,
) FilterItemBuilderLackingPredicates {

	fb.currentFilterItem.recordTypes = append(
		fb.currentFilterItem.recordTypes,
		fb.sanitizeRecordTypes(recordType, recordTypes...)...,
	)

	return fb
}

// AndAnyRecordTypeOf adds one or multiple RecordTypes to the current FilterItem expecting ANY RecordType to match.
//
// It sanitizes the input:
//   - removing empty RecordTypes ("")
//   - sorting the RecordTypes
//   - removing duplicate RecordTypes
func (fb filterBuilder) AndAnyRecordTypeOf(
	recordType FilterRecordTypeString,
	recordTypes ...FilterRecordTypeString,
) CompletedFilterItemBuilder {

	return fb.AnyRecordTypeOf(recordType, recordTypes...)
}

func (fb filterBuilder) sanitizeRecordTypes(
	recordType FilterRecordTypeString,
	recordTypes ...FilterRecordTypeString,
) []FilterRecordTypeString {

	allRecordTypes := append([]FilterRecordTypeString{recordType}, recordTypes...)
	allRecordTypes = slices.DeleteFunc(
		allRecordTypes,
		func(e FilterRecordTypeString) bool {
			return e == ""
		})
	slices.Sort(allRecordTypes)
	allRecordTypes = slices.Compact(allRecordTypes)
	allRecordTypes = slices.Clip(allRecordTypes)

	return allRecordTypes
}

// AnyPredicateOf adds one or multiple FilterPredicate(s) to the current FilterItem expecting ANY predicate to match.
//
// It sanitizes the input:
//   - removing empty/partial FilterPredicate(s) (key or val is "")
//   - sorting the FilterPredicate(s)
//   - removing duplicate FilterPredicate(s)
func (fb filterBuilder) AnyPredicateOf(
	predicate FilterPredicate,
	predicates ...FilterPredicate,
) FilterItemBuilderLackingRecordTypes {

	fb.currentFilterItem.predicates = append(
		fb.currentFilterItem.predicates,
		fb.sanitizePredicates(predicate, predicates...)...,
	)

	return fb
}

// AndAnyPredicateOf adds one or multiple FilterPredicate(s) to the current FilterItem expecting ANY predicate to match.
//
// It sanitizes the input:
//   - removing empty/partial FilterPredicate(s) (key or val is "")
//   - sorting the FilterPredicate(s)
//   - removing duplicate FilterPredicate(s)
func (fb filterBuilder) AndAnyPredicateOf(
	predicate FilterPredicate,
	predicates ...FilterPredicate,
) CompletedFilterItemBuilder {

	return fb.AnyPredicateOf(predicate, predicates...)
}

// AllPredicatesOf adds one or multiple FilterPredicate(s) to the current FilterItem expecting ALL predicates to match.
//
// It sanitizes the input:
//   - removing empty/partial FilterPredicate(s) (key or val is "")
//   - sorting the FilterPredicate(s)
//   - removing duplicate FilterPredicate(s)
func (fb filterBuilder) AllPredicatesOf(
	predicate FilterPredicate,
	predicates ...FilterPredicate,
) FilterItemBuilderLackingRecordTypes {

	fb.currentFilterItem.allPredicatesMustMatch = true

	fb.currentFilterItem.predicates = append(
		fb.currentFilterItem.predicates,
		fb.sanitizePredicates(predicate, predicates...)...,
	)

	return fb
}

// AndAllPredicatesOf adds one or multiple FilterPredicate(s) to the current FilterItem expecting ALL predicates to match.
//
// It sanitizes the input:
//   - removing empty/partial FilterPredicate(s) (key or val is "")
//   - sorting the FilterPredicate(s)
//   - removing duplicate FilterPredicate(s)
func (fb filterBuilder) AndAllPredicatesOf(
	predicate FilterPredicate,
	predicates ...FilterPredicate,
) CompletedFilterItemBuilder {

	return fb.AllPredicatesOf(predicate, predicates...)
}

func (fb filterBuilder) sanitizePredicates(
	predicate FilterPredicate,
	predicates ...FilterPredicate,
) []FilterPredicate {

	allPredicates := append([]FilterPredicate{predicate}, predicates...)
	allPredicates = slices.DeleteFunc(allPredicates, func(e FilterPredicate) bool { return len(e.key) == 0 || len(e.val) == 0 })
	slices.SortFunc(
		allPredicates,
		func(a, b FilterPredicate) int {
			if a.key > b.key {
				return 1
			}

			if a.key < b.key {
				return -1
			}

			return 0
		})

	allPredicates = slices.Compact(allPredicates)
	allPredicates = slices.Clip(allPredicates)

	return allPredicates
}

// OrMatching finalizes the current FilterItem and starts a new one.
func (fb filterBuilder) OrMatching() EmptyFilterItemBuilder {
	fb.filter.items = append(fb.filter.items, fb.currentFilterItem)
	fb.currentFilterItem = FilterItem{}

	return fb
}

// MatchingAnyRecord directly creates an empty filter.
func (fb filterBuilder) MatchingAnyRecord() Filter {
	return fb.filter
}

// Finalize returns the Filter once it has at least one FilterItem with at least one RecordType OR one Predicate.
func (fb filterBuilder) Finalize() Filter {
	fb.filter.items = append(fb.filter.items, fb.currentFilterItem)

	return fb.filter
}
