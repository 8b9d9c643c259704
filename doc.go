// Package ordering resolves integer priorities for objects held in a
// component registry and sorts collections of them deterministically.
//
// A Comparator consults, in order: annotation attributes (producer-method
// attributes overriding type-level ones), the Ordered interface, a
// reflectively discovered GetOrder accessor, and finally the LowestPrecedence
// sentinel. Lower values sort first.
package ordering
