package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Загрузка спецификации (XML)
	SpecInfo           Code = 1000
	SpecSyntax         Code = 1001
	SpecUnknownElement Code = 1002
	SpecUnexpectedText Code = 1003
	SpecDuplicate      Code = 1004

	// Ошибки конфигурации, найденные интерпретатором
	CfgInfo            Code = 2000
	CfgMissingAttr     Code = 2001
	CfgBadValue        Code = 2002
	CfgUnknownField    Code = 2003
	CfgFieldKind       Code = 2004
	CfgBadNesting      Code = 2005
	CfgUnknownLayout   Code = 2006
	CfgNoCurrentLocale Code = 2007
	CfgUnknownOrdering Code = 2008
	CfgRecursion       Code = 2009
	CfgUnhandledKind   Code = 2010
	CfgStaleFragment   Code = 2011

	// Данные (schema/objects YAML)
	DataInfo        Code = 3000
	DataLoad        Code = 3001
	DataUnknownType Code = 3002
	DataBadField    Code = 3003
	DataDanglingRef Code = 3004

	// IO
	IOLoadFileError Code = 4001

	// Проект / конфиг
	ProjInfo          Code = 5000
	ProjConfigMissing Code = 5001
	ProjConfigInvalid Code = 5002

	// Наблюдаемость
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:        "Unknown error",
		SpecInfo:           "Specification information",
		SpecSyntax:         "Malformed specification XML",
		SpecUnknownElement: "Unknown specification element",
		SpecUnexpectedText: "Unexpected character data",
		SpecDuplicate:      "Duplicate layout",
		CfgInfo:            "Configuration information",
		CfgMissingAttr:     "Missing mandatory attribute",
		CfgBadValue:        "Malformed attribute value",
		CfgUnknownField:    "Unknown field for type",
		CfgFieldKind:       "Field has the wrong storage kind",
		CfgBadNesting:      "Illegal nesting",
		CfgUnknownLayout:   "Unknown layout",
		CfgNoCurrentLocale: "No current locale outside a multilingual loop",
		CfgUnknownOrdering: "Unknown type ordering",
		CfgRecursion:       "Specification recursion too deep",
		CfgUnhandledKind:   "Unhandled node kind",
		CfgStaleFragment:   "Fragment minted before a layout reset",
		DataInfo:           "Data information",
		DataLoad:           "Data load error",
		DataUnknownType:    "Unknown type",
		DataBadField:       "Bad field value",
		DataDanglingRef:    "Reference to a missing object",
		IOLoadFileError:    "I/O load file error",
		ProjInfo:           "Project information",
		ProjConfigMissing:  "Configuration file not found",
		ProjConfigInvalid:  "Invalid configuration file",
		ObsInfo:            "Observability information",
		ObsTimings:         "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("SPC%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("CFG%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("DAT%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
