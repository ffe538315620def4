// Package grading is the grade calculation engine shared by every calculator.
//
// It turns graded entries into weighted aggregates, combines aggregates across
// levels (entries into semesters, semesters into a cumulative figure) and solves
// the inverse problems of "what do I need on the final" and "what GPA do I need
// next term". Every function is pure: no state, no I/O, no errors. Incomplete or
// unparseable input degrades to a zero contribution so a live form always has a
// number to show; interpreting boundary results is left to the caller.
package grading
