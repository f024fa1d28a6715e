// Package collection aggregates multiple registrations into one ordered
// "many" result per closed element type.
//
// A service type's collection is either controlled — ordered groups of
// concrete and open implementation items the container owns — or
// uncontrolled, a single externally supplied producer standing in for the
// whole sequence. The two styles cannot mix for the same type. Requests for
// a closed element type close every applicable generic item, concatenate
// survivors in group-then-item order, and memoize the resulting collection
// producer so repeated requests observe the same instance.
package collection
