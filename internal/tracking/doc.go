// Package tracking derives read-only views from asset location state:
// fleet statistics, map bounds, nearest yards and newest-first timelines.
// Nothing here writes; every function works on the values it is given.
package tracking
