package grading

// ConvertScaleToFourPoint maps a 10 point CGPA onto the US 4.0 scale with the linear
// rule (cgpa - 0.75) / 2.25, clamped to [0, 4]. This is a rough approximation used
// for orientation only; no institution is bound by it and results must be labelled
// as approximate wherever they are shown.
func ConvertScaleToFourPoint(cgpa10 float64) float64 {
	return clamp((cgpa10-0.75)/2.25, 0, MaxGPA)
}
