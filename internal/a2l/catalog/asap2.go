package catalog

// ASAP2 1.6 keyword table.

var asap2Roots = []string{"ASAP2_VERSION", "A2ML_VERSION", "PROJECT"}

func p(name string, t Type) Param {
	return Param{Name: name, Type: t}
}

func enum(name string, values ...string) Param {
	return Param{Name: name, Type: Enum, Values: values}
}

func list(name string, t Type, table string) Param {
	return Param{Name: name, Type: t, Multiple: true, Table: table}
}

func tuples(name, table string, fields ...Param) Param {
	return Param{Name: name, Type: fields[0].Type, Multiple: true, Fields: fields, Table: table}
}

func children(tags ...string) []Element {
	out := make([]Element, len(tags))
	for i, tag := range tags {
		out[i] = Element{Tag: tag}
	}
	return out
}

func single(tag string, params ...Param) *Keyword {
	return &Keyword{Tag: tag, Params: params}
}

func marker(tag string) *Keyword {
	return &Keyword{Tag: tag}
}

var axes = []string{"X", "Y", "Z", "4", "5"}

func positionDatatype(tag string) *Keyword {
	return single(tag, p("position", Uint), p("datatype", Datatype))
}

func recordLayoutKeywords() []*Keyword {
	var out []*Keyword
	for _, axis := range axes {
		out = append(out,
			single("AXIS_PTS_"+axis, p("position", Uint), p("datatype", Datatype), p("indexIncr", Indexorder), p("addressing", Addrtype)),
			single("AXIS_RESCALE_"+axis, p("position", Uint), p("datatype", Datatype), p("maxNumberOfRescalePairs", Uint), p("indexIncr", Indexorder), p("addressing", Addrtype)),
			positionDatatype("DIST_OP_"+axis),
			single("FIX_NO_AXIS_PTS_"+axis, p("numberOfAxisPoints", Uint)),
			positionDatatype("NO_AXIS_PTS_"+axis),
			positionDatatype("NO_RESCALE_"+axis),
			positionDatatype("OFFSET_"+axis),
			positionDatatype("RIP_ADDR_"+axis),
			positionDatatype("SHIFT_OP_"+axis),
			positionDatatype("SRC_ADDR_"+axis),
		)
	}
	return append(out, positionDatatype("RIP_ADDR_W"))
}

func recordLayoutChildren() []Element {
	tags := []string{"FNC_VALUES", "IDENTIFICATION"}
	for _, prefix := range []string{"AXIS_PTS_", "AXIS_RESCALE_", "NO_AXIS_PTS_", "NO_RESCALE_", "FIX_NO_AXIS_PTS_", "SRC_ADDR_"} {
		for _, axis := range axes {
			tags = append(tags, prefix+axis)
		}
	}
	tags = append(tags, "RIP_ADDR_W")
	for _, prefix := range []string{"RIP_ADDR_", "SHIFT_OP_", "OFFSET_", "DIST_OP_"} {
		for _, axis := range axes {
			tags = append(tags, prefix+axis)
		}
	}
	tags = append(tags,
		"ALIGNMENT_BYTE", "ALIGNMENT_WORD", "ALIGNMENT_LONG", "ALIGNMENT_INT64",
		"ALIGNMENT_FLOAT32_IEEE", "ALIGNMENT_FLOAT64_IEEE", "RESERVED", "STATIC_RECORD_LAYOUT",
	)
	return children(tags...)
}

var (
	prgTypes = []string{
		"CALIBRATION_VARIABLES", "CODE", "DATA", "EXCLUDE_FROM_FLASH",
		"OFFLINE_DATA", "RESERVED", "SERAM", "VARIABLES",
	}
	memoryTypes     = []string{"EEPROM", "EPROM", "FLASH", "RAM", "ROM", "REGISTER"}
	conversionTypes = []string{"IDENTICAL", "FORM", "LINEAR", "RAT_FUNC", "TAB_INTP", "TAB_NOINTP", "TAB_VERB"}
	monotonyValues  = []string{
		"MON_DECREASE", "MON_INCREASE", "STRICT_DECREASE", "STRICT_INCREASE",
		"MONOTONOUS", "STRICT_MON", "NOT_MON",
	}
)

func memoryOffsets() []Param {
	return []Param{p("offset_0", Long), p("offset_1", Long), p("offset_2", Long), p("offset_3", Long), p("offset_4", Long)}
}

func asap2Keywords() []*Keyword {
	kws := []*Keyword{
		single("A2ML", p("formatSpecification", String)),
		single("A2ML_VERSION", p("versionNo", Uint), p("upgradeNo", Uint)),
		{Tag: "ADDR_EPK", Params: []Param{p("address", Ulong)}, Multiple: true},
		single("ALIGNMENT_BYTE", p("alignmentBorder", Uint)),
		single("ALIGNMENT_FLOAT32_IEEE", p("alignmentBorder", Uint)),
		single("ALIGNMENT_FLOAT64_IEEE", p("alignmentBorder", Uint)),
		single("ALIGNMENT_INT64", p("alignmentBorder", Uint)),
		single("ALIGNMENT_LONG", p("alignmentBorder", Uint)),
		single("ALIGNMENT_WORD", p("alignmentBorder", Uint)),
		{
			Tag:      "ANNOTATION",
			Children: children("ANNOTATION_LABEL", "ANNOTATION_ORIGIN", "ANNOTATION_TEXT"),
			Multiple: true,
		},
		single("ANNOTATION_LABEL", p("label", String)),
		single("ANNOTATION_ORIGIN", p("origin", String)),
		single("ANNOTATION_TEXT", list("text", String, "annotation_text_values")),
		single("ARRAY_SIZE", p("number", Uint)),
		single("ASAP2_VERSION", p("versionNo", Uint), p("upgradeNo", Uint)),
		{
			Tag: "AXIS_DESCR",
			Params: []Param{
				enum("attribute", "CURVE_AXIS", "COM_AXIS", "FIX_AXIS", "RES_AXIS", "STD_AXIS"),
				p("inputQuantity", Ident), p("conversion", Ident), p("maxAxisPoints", Uint),
				p("lowerLimit", Float), p("upperLimit", Float),
			},
			Children: children(
				"READ_ONLY", "FORMAT", "ANNOTATION", "AXIS_PTS_REF", "MAX_GRAD", "MONOTONY",
				"BYTE_ORDER", "EXTENDED_LIMITS", "FIX_AXIS_PAR", "FIX_AXIS_PAR_DIST",
				"FIX_AXIS_PAR_LIST", "DEPOSIT", "CURVE_AXIS_REF", "STEP_SIZE", "PHYS_UNIT",
			),
			Multiple: true,
		},
		{
			Tag: "AXIS_PTS",
			Params: []Param{
				p("name", Ident), p("longIdentifier", String), p("address", Ulong),
				p("inputQuantity", Ident), p("depositAttr", Ident), p("maxDiff", Float),
				p("conversion", Ident), p("maxAxisPoints", Uint),
				p("lowerLimit", Float), p("upperLimit", Float),
			},
			Children: children(
				"DISPLAY_IDENTIFIER", "READ_ONLY", "FORMAT", "DEPOSIT", "BYTE_ORDER",
				"FUNCTION_LIST", "REF_MEMORY_SEGMENT", "GUARD_RAILS", "EXTENDED_LIMITS",
				"ANNOTATION", "IF_DATA", "CALIBRATION_ACCESS", "ECU_ADDRESS_EXTENSION",
				"SYMBOL_LINK", "PHYS_UNIT", "STEP_SIZE", "MONOTONY",
			),
			Multiple: true,
		},
		single("AXIS_PTS_REF", p("axisPoints", Ident)),
		single("BIT_MASK", p("mask", Ulong)),
		{Tag: "BIT_OPERATION", Children: children("LEFT_SHIFT", "RIGHT_SHIFT", "SIGN_EXTEND")},
		single("BYTE_ORDER", p("byteOrder", Byteorder)),
		single("CALIBRATION_ACCESS", enum("type", "CALIBRATION", "NO_CALIBRATION", "NOT_IN_MCD_SYSTEM", "OFFLINE_CALIBRATION")),
		{
			Tag:      "CALIBRATION_HANDLE",
			Params:   []Param{list("handle", Long, "calhandles")},
			Children: children("CALIBRATION_HANDLE_TEXT"),
			Multiple: true,
		},
		single("CALIBRATION_HANDLE_TEXT", p("text", String)),
		{
			Tag:      "CALIBRATION_METHOD",
			Params:   []Param{p("method", String), p("version", Ulong)},
			Children: children("CALIBRATION_HANDLE"),
			Multiple: true,
		},
		{
			Tag: "CHARACTERISTIC",
			Params: []Param{
				p("name", Ident), p("longIdentifier", String),
				enum("type", "ASCII", "CURVE", "MAP", "CUBOID", "CUBE_4", "CUBE_5", "VAL_BLK", "VALUE"),
				p("address", Ulong), p("deposit", Ident), p("maxDiff", Float),
				p("conversion", Ident), p("lowerLimit", Float), p("upperLimit", Float),
			},
			Children: children(
				"DISPLAY_IDENTIFIER", "FORMAT", "BYTE_ORDER", "BIT_MASK", "FUNCTION_LIST",
				"NUMBER", "EXTENDED_LIMITS", "READ_ONLY", "GUARD_RAILS", "MAP_LIST",
				"MAX_REFRESH", "DEPENDENT_CHARACTERISTIC", "VIRTUAL_CHARACTERISTIC",
				"REF_MEMORY_SEGMENT", "ANNOTATION", "COMPARISON_QUANTITY", "IF_DATA",
				"AXIS_DESCR", "CALIBRATION_ACCESS", "MATRIX_DIM", "ECU_ADDRESS_EXTENSION",
				"SYMBOL_LINK", "PHYS_UNIT", "STEP_SIZE", "DISCRETE",
			),
			Multiple: true,
		},
		single("COEFFS", p("a", Float), p("b", Float), p("c", Float), p("d", Float), p("e", Float), p("f", Float)),
		single("COEFFS_LINEAR", p("a", Float), p("b", Float)),
		single("COMPARISON_QUANTITY", p("name", Ident)),
		{
			Tag: "COMPU_METHOD",
			Params: []Param{
				p("name", Ident), p("longIdentifier", String),
				enum("conversionType", conversionTypes...),
				p("format", String), p("unit", String),
			},
			Children: children("FORMULA", "COEFFS", "COEFFS_LINEAR", "COMPU_TAB_REF", "REF_UNIT", "STATUS_STRING_REF"),
			Multiple: true,
		},
		{
			Tag: "COMPU_TAB",
			Params: []Param{
				p("name", Ident), p("longIdentifier", String),
				enum("conversionType", "TAB_INTP", "TAB_NOINTP"),
				p("numberValuePairs", Uint),
				tuples("pairs", "compu_tab_pair", p("inVal", Float), p("outVal", Float)),
			},
			Children: children("DEFAULT_VALUE", "DEFAULT_VALUE_NUMERIC"),
			Multiple: true,
		},
		single("COMPU_TAB_REF", p("conversionTable", Ident)),
		{
			Tag: "COMPU_VTAB",
			Params: []Param{
				p("name", Ident), p("longIdentifier", String),
				enum("conversionType", "TAB_VERB"),
				p("numberValuePairs", Uint),
				tuples("pairs", "compu_vtab_pair", p("inVal", Float), p("outVal", String)),
			},
			Children: children("DEFAULT_VALUE"),
			Multiple: true,
		},
		{
			Tag: "COMPU_VTAB_RANGE",
			Params: []Param{
				p("name", Ident), p("longIdentifier", String),
				p("numberValueTriples", Uint),
				tuples("triples", "compu_vtab_range_triple", p("inValMin", Float), p("inValMax", Float), p("outVal", String)),
			},
			Children: children("DEFAULT_VALUE"),
			Multiple: true,
		},
		single("CPU_TYPE", p("cPU", String)),
		single("CURVE_AXIS_REF", p("curveAxis", Ident)),
		single("CUSTOMER", p("customer", String)),
		single("CUSTOMER_NO", p("number", String)),
		single("DATA_SIZE", p("size", Uint)),
		single("DEF_CHARACTERISTIC", list("identifier", Ident, "def_characteristic_identifiers")),
		single("DEFAULT_VALUE", p("display_string", String)),
		single("DEFAULT_VALUE_NUMERIC", p("display_value", Float)),
		single("DEPENDENT_CHARACTERISTIC", p("formula", String), list("characteristic", Ident, "dependent_characteristic_identifiers")),
		single("DEPOSIT", enum("mode", "ABSOLUTE", "DIFFERENCE")),
		marker("DISCRETE"),
		single("DISPLAY_IDENTIFIER", p("display_name", Ident)),
		single("ECU", p("controlUnit", String)),
		single("ECU_ADDRESS", p("address", Ulong)),
		single("ECU_ADDRESS_EXTENSION", p("extension", Int)),
		single("ECU_CALIBRATION_OFFSET", p("offset", Long)),
		single("EPK", p("identifier", String)),
		single("ERROR_MASK", p("mask", Ulong)),
		single("EXTENDED_LIMITS", p("lowerLimit", Float), p("upperLimit", Float)),
		single("FIX_AXIS_PAR", p("offset", Int), p("shift", Int), p("numberapo", Uint)),
		single("FIX_AXIS_PAR_DIST", p("offset", Int), p("distance", Int), p("numberapo", Uint)),
		single("FIX_AXIS_PAR_LIST", list("axisPts_Value", Float, "fix_axis_par_list_value")),
		single("FNC_VALUES",
			p("position", Uint), p("datatype", Datatype),
			enum("indexMode", "ALTERNATE_CURVES", "ALTERNATE_WITH_X", "ALTERNATE_WITH_Y", "COLUMN_DIR", "ROW_DIR"),
			p("addresstype", Addrtype),
		),
		single("FORMAT", p("formatString", String)),
		{Tag: "FORMULA", Params: []Param{p("f_x", String)}, Children: children("FORMULA_INV")},
		single("FORMULA_INV", p("g_x", String)),
		{
			Tag:      "FRAME",
			Params:   []Param{p("name", Ident), p("longIdentifier", String), p("scalingUnit", Uint), p("rate", Ulong)},
			Children: children("FRAME_MEASUREMENT", "IF_DATA"),
			Multiple: true,
		},
		single("FRAME_MEASUREMENT", list("identifier", Ident, "frame_measurement_identifiers")),
		{
			Tag:    "FUNCTION",
			Params: []Param{p("name", Ident), p("longIdentifier", String)},
			Children: children(
				"ANNOTATION", "DEF_CHARACTERISTIC", "REF_CHARACTERISTIC", "IN_MEASUREMENT",
				"OUT_MEASUREMENT", "LOC_MEASUREMENT", "SUB_FUNCTION", "FUNCTION_VERSION", "IF_DATA",
			),
			Multiple: true,
		},
		single("FUNCTION_LIST", list("name", Ident, "function_list_identifiers")),
		single("FUNCTION_VERSION", p("versionIdentifier", String)),
		{
			Tag:    "GROUP",
			Params: []Param{p("groupName", Ident), p("groupLongIdentifier", String)},
			Children: children(
				"ANNOTATION", "ROOT", "REF_CHARACTERISTIC", "REF_MEASUREMENT",
				"FUNCTION_LIST", "SUB_GROUP", "IF_DATA",
			),
			Multiple: true,
		},
		marker("GUARD_RAILS"),
		{Tag: "HEADER", Params: []Param{p("comment", String)}, Children: children("VERSION", "PROJECT_NO")},
		single("IDENTIFICATION", p("position", Uint), p("datatype", Datatype)),
		{Tag: "IF_DATA", Params: []Param{p("name", Ident), list("raw", String, "if_data_raw")}, Multiple: true},
		single("IN_MEASUREMENT", list("identifier", Ident, "in_measurement_identifiers")),
		single("LAYOUT", enum("indexMode", "ROW_DIR", "COLUMN_DIR")),
		single("LEFT_SHIFT", p("bitcount", Ulong)),
		single("LOC_MEASUREMENT", list("identifier", Ident, "loc_measurement_identifiers")),
		single("MAP_LIST", list("name", Ident, "map_list_identifiers")),
		single("MATRIX_DIM", p("xDim", Uint), p("yDim", Uint), p("zDim", Uint)),
		single("MAX_GRAD", p("maxGradient", Float)),
		single("MAX_REFRESH", p("scalingUnit", Uint), p("rate", Ulong)),
		{
			Tag: "MEASUREMENT",
			Params: []Param{
				p("name", Ident), p("longIdentifier", String), p("datatype", Datatype),
				p("conversion", Ident), p("resolution", Uint), p("accuracy", Float),
				p("lowerLimit", Float), p("upperLimit", Float),
			},
			Children: children(
				"DISPLAY_IDENTIFIER", "READ_WRITE", "READ_ONLY", "FORMAT", "ARRAY_SIZE",
				"BIT_MASK", "BIT_OPERATION", "BYTE_ORDER", "MAX_REFRESH", "VIRTUAL",
				"FUNCTION_LIST", "ECU_ADDRESS", "ERROR_MASK", "REF_MEMORY_SEGMENT",
				"ANNOTATION", "IF_DATA", "MATRIX_DIM", "ECU_ADDRESS_EXTENSION", "LAYOUT",
				"DISCRETE", "SYMBOL_LINK", "PHYS_UNIT",
			),
			Multiple: true,
		},
		{
			Tag: "MEMORY_LAYOUT",
			Params: append([]Param{
				enum("prgType", "PRG_CODE", "PRG_DATA", "PRG_RESERVED"),
				p("address", Ulong), p("size", Ulong),
			}, memoryOffsets()...),
			Children: children("IF_DATA"),
			Multiple: true,
		},
		{
			Tag: "MEMORY_SEGMENT",
			Params: append([]Param{
				p("name", Ident), p("longIdentifier", String),
				enum("prgType", prgTypes...), enum("memoryType", memoryTypes...),
				enum("attribute", "INTERN", "EXTERN"),
				p("address", Ulong), p("size", Ulong),
			}, memoryOffsets()...),
			Children: children("IF_DATA"),
			Multiple: true,
		},
		{
			Tag:    "MOD_COMMON",
			Params: []Param{p("comment", String)},
			Children: children(
				"S_REC_LAYOUT", "DEPOSIT", "BYTE_ORDER", "DATA_SIZE", "ALIGNMENT_BYTE",
				"ALIGNMENT_WORD", "ALIGNMENT_LONG", "ALIGNMENT_INT64",
				"ALIGNMENT_FLOAT32_IEEE", "ALIGNMENT_FLOAT64_IEEE",
			),
		},
		{
			Tag:    "MOD_PAR",
			Params: []Param{p("comment", String)},
			Children: children(
				"VERSION", "ADDR_EPK", "EPK", "SUPPLIER", "CUSTOMER", "CUSTOMER_NO", "USER",
				"PHONE_NO", "ECU", "CPU_TYPE", "NO_OF_INTERFACES", "ECU_CALIBRATION_OFFSET",
				"CALIBRATION_METHOD", "MEMORY_LAYOUT", "MEMORY_SEGMENT", "SYSTEM_CONSTANT",
			),
		},
		{
			Tag:    "MODULE",
			Params: []Param{p("name", Ident), p("longIdentifier", String)},
			Children: children(
				"A2ML", "MOD_PAR", "MOD_COMMON", "IF_DATA", "CHARACTERISTIC", "AXIS_PTS",
				"MEASUREMENT", "COMPU_METHOD", "COMPU_TAB", "COMPU_VTAB", "COMPU_VTAB_RANGE",
				"FUNCTION", "GROUP", "RECORD_LAYOUT", "VARIANT_CODING", "FRAME",
				"USER_RIGHTS", "UNIT",
			),
			Multiple: true,
		},
		single("MONOTONY", enum("monotony", monotonyValues...)),
		single("NO_OF_INTERFACES", p("num", Uint)),
		single("NUMBER", p("number", Uint)),
		single("OUT_MEASUREMENT", list("identifier", Ident, "out_measurement_identifiers")),
		single("PHONE_NO", p("telnum", String)),
		single("PHYS_UNIT", p("unit", String)),
		{
			Tag:      "PROJECT",
			Params:   []Param{p("name", Ident), p("longIdentifier", String)},
			Children: children("HEADER", "MODULE"),
		},
		single("PROJECT_NO", p("projectNumber", Ident)),
		marker("READ_ONLY"),
		marker("READ_WRITE"),
		{
			Tag:      "RECORD_LAYOUT",
			Params:   []Param{p("name", Ident)},
			Children: recordLayoutChildren(),
			Multiple: true,
		},
		single("REF_CHARACTERISTIC", list("identifier", Ident, "ref_characteristic_identifiers")),
		{Tag: "REF_GROUP", Params: []Param{list("identifier", Ident, "ref_group_identifiers")}, Multiple: true},
		single("REF_MEASUREMENT", list("identifier", Ident, "ref_measurement_identifiers")),
		single("REF_MEMORY_SEGMENT", p("name", Ident)),
		single("REF_UNIT", p("unit", Ident)),
		{Tag: "RESERVED", Params: []Param{p("position", Uint), p("dataSize", Datasize)}, Multiple: true},
		single("RIGHT_SHIFT", p("bitcount", Ulong)),
		marker("ROOT"),
		single("S_REC_LAYOUT", p("name", Ident)),
		single("SI_EXPONENTS",
			p("length", Int), p("mass", Int), p("time", Int), p("electricCurrent", Int),
			p("temperature", Int), p("amountOfSubstance", Int), p("luminousIntensity", Int),
		),
		marker("SIGN_EXTEND"),
		marker("STATIC_RECORD_LAYOUT"),
		single("STATUS_STRING_REF", p("conversionTable", Ident)),
		single("STEP_SIZE", p("stepSize", Float)),
		single("SUB_FUNCTION", list("identifier", Ident, "sub_function_identifiers")),
		single("SUB_GROUP", list("identifier", Ident, "sub_group_identifiers")),
		single("SUPPLIER", p("manufacturer", String)),
		single("SYMBOL_LINK", p("symbolName", String), p("offset", Long)),
		{Tag: "SYSTEM_CONSTANT", Params: []Param{p("name", String), p("value", String)}, Multiple: true},
		{
			Tag: "UNIT",
			Params: []Param{
				p("name", Ident), p("longIdentifier", String), p("display", String),
				enum("type", "DERIVED", "EXTENDED_SI"),
			},
			Children: children("SI_EXPONENTS", "REF_UNIT", "UNIT_CONVERSION"),
			Multiple: true,
		},
		single("UNIT_CONVERSION", p("gradient", Float), p("offset", Float)),
		single("USER", p("userName", String)),
		{
			Tag:      "USER_RIGHTS",
			Params:   []Param{p("userLevelId", Ident)},
			Children: children("REF_GROUP", "READ_ONLY"),
			Multiple: true,
		},
		single("VAR_ADDRESS", list("address", Ulong, "var_address_values")),
		{
			Tag:      "VAR_CHARACTERISTIC",
			Params:   []Param{p("name", Ident), list("criterionName", Ident, "var_characteristic_identifiers")},
			Children: children("VAR_ADDRESS"),
			Multiple: true,
		},
		{
			Tag: "VAR_CRITERION",
			Params: []Param{
				p("name", Ident), p("longIdentifier", String),
				list("value", Ident, "var_criterion_identifiers"),
			},
			Children: children("VAR_MEASUREMENT", "VAR_SELECTION_CHARACTERISTIC"),
			Multiple: true,
		},
		{
			Tag:      "VAR_FORBIDDEN_COMB",
			Params:   []Param{tuples("pairs", "var_forbidden_comb_pair", p("criterionName", Ident), p("criterionValue", Ident))},
			Multiple: true,
		},
		single("VAR_MEASUREMENT", p("name", Ident)),
		single("VAR_NAMING", enum("tag", "NUMERIC", "ALPHA")),
		single("VAR_SELECTION_CHARACTERISTIC", p("name", Ident)),
		single("VAR_SEPARATOR", p("separator", String)),
		{
			Tag:      "VARIANT_CODING",
			Children: children("VAR_SEPARATOR", "VAR_NAMING", "VAR_CRITERION", "VAR_FORBIDDEN_COMB", "VAR_CHARACTERISTIC"),
		},
		single("VERSION", p("versionIdentifier", String)),
		single("VIRTUAL", list("measuringChannel", Ident, "virtual_measuring_channel")),
		single("VIRTUAL_CHARACTERISTIC", p("formula", String), list("characteristic", Ident, "virtual_characteristic_identifiers")),
	}
	return append(kws, recordLayoutKeywords()...)
}
