package exifvalue

import "fmt"

// Code tables from the EXIF 2.3 enumerations. Values missing from a
// table render as "Unknown mode (N)" instead of failing.

var flashModes = map[int]string{
	0:  "No flash",
	1:  "Flash fired",
	5:  "Strobe return light not detected",
	7:  "Strobe return light detected",
	9:  "Flash fired, compulsory flash mode",
	13: "Flash fired, compulsory flash mode, return light not detected",
	15: "Flash fired, compulsory flash mode, return light detected",
	16: "Flash did not fire, compulsory flash mode",
	24: "Flash did not fire, auto mode",
	25: "Flash fired, auto mode",
	29: "Flash fired, auto mode, return light not detected",
	31: "Flash fired, auto mode, return light detected",
	32: "No flash function",
	65: "Flash fired, red-eye reduction mode",
	69: "Flash fired, red-eye reduction mode, return light not detected",
	71: "Flash fired, red-eye reduction mode, return light detected",
	73: "Flash fired, compulsory flash mode, red-eye reduction mode",
	77: "Flash fired, compulsory flash mode, red-eye reduction mode, return light not detected",
	79: "Flash fired, compulsory flash mode, red-eye reduction mode, return light detected",
	89: "Flash fired, auto mode, red-eye reduction mode",
	93: "Flash fired, auto mode, return light not detected, red-eye reduction mode",
	95: "Flash fired, auto mode, return light detected, red-eye reduction mode",
}

var meteringModes = map[int]string{
	0:   "Unknown",
	1:   "Average",
	2:   "Center-weighted average",
	3:   "Spot",
	4:   "Multi-spot",
	5:   "Pattern",
	6:   "Partial",
	255: "Other",
}

var whiteBalanceModes = map[int]string{
	0:  "Auto",
	1:  "Manual",
	2:  "Auto (warm light)",
	3:  "Auto (cool light)",
	4:  "Auto (daylight)",
	5:  "Auto (cloudy)",
	6:  "Auto (tungsten)",
	7:  "Auto (fluorescent)",
	8:  "Auto (flash)",
	9:  "Manual",
	10: "Cloudy",
	11: "Shade",
	17: "Manual",
	18: "Daylight fluorescent",
	19: "Day white fluorescent",
	20: "Cool white fluorescent",
	21: "White fluorescent",
	22: "Warm white fluorescent",
	23: "Standard light A",
	24: "Standard light B",
	25: "Standard light C",
	26: "D55",
	27: "D65",
	28: "D75",
	29: "D50",
	30: "ISO studio tungsten",
}

func decode(table map[int]string, code int) string {
	if s, ok := table[code]; ok {
		return s
	}
	return fmt.Sprintf("Unknown mode (%d)", code)
}

func DecodeFlash(code int) string {
	return decode(flashModes, code)
}

func DecodeMeteringMode(code int) string {
	return decode(meteringModes, code)
}

func DecodeWhiteBalance(code int) string {
	return decode(whiteBalanceModes, code)
}
