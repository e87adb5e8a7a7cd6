package header

import (
	"lawparse/fragment"
)

// Building blocks of OPSI header markup. Paragraph content may be wrapped in
// any number of bold, italic or font tags.
const (
	paraOpen  = `<p[^>]*>\s*(?:<(?:b|i|font)\b[^>]*>\s*)*`
	paraClose = `\s*(?:</(?:b|i|font)>\s*)*</p>\s*`
)

// Common leading part of all OPSI pages: page marker and document head.
var leading = []Block{
	Always("pageurl",
		fragment.Middle(`\s*(?:<pageurl[^>]*/>\s*)?`),
		fragment.Middle(`(?is)(?:<!DOCTYPE[^>]*>\s*)?(?:<html[^>]*>\s*)?(?:<head[^>]*>\s*)?`),
	),
	Always("title",
		fragment.Value("name", `(?is)<title>\s*(.*?)\s*</title>\s*`),
		fragment.Middle(`(?is)(?:<(?:meta|link)[^>]*>\s*)*(?:</head>\s*)?(?:<body[^>]*>\s*)?`),
	),
}

var isbnBlock = Optional("isbn", `(?i)`+paraOpen+`ISBN\b`,
	fragment.ISBN("preisbn", `(?i)`+paraOpen+`ISBN\b:?(?:\s*((\d{1,5})[-\s](\d{1,7})[-\s](\d{1,7}[-\s]?[\dX])))?`+paraClose),
)

// ActGrammar describes header of Acts in both dialects. Ordinary Acts carry
// long title and enacting formula, supply Acts open with "An Act to apply"
// followed by the Commons' petition, which either includes enacting words
// (petition1) or is followed by separate enacting paragraph (petition2).
var ActGrammar = &Grammar{
	Name: "act",
	Blocks: append(append([]Block{}, leading...),
		Always("heading",
			fragment.Value("name2", `(?is)<h1[^>]*>\s*(.*?)\s*</h1>\s*`),
			fragment.Value("year", `(?i)<h2[^>]*>\s*(\d{4})\s+`),
			fragment.Value("chapter", `(?i)CHAPTER\s+(\w+)\s*</h2>\s*`),
		),
		Optional("chapt2", `(?i)<h2[^>]*>\s*\(`,
			fragment.Value("chapt2", `(?is)<h2[^>]*>\s*(\(.*?\))\s*</h2>\s*`),
		),
		Optional("name3", `(?i)<h3[^>]*>\s*\(`,
			fragment.Value("name3", `(?is)<h3[^>]*>\s*(\(.*?\))\s*</h3>\s*`),
		),
		isbnBlock,
		Optional("prodid", `(?i)`+paraOpen+`Product\s+ID\b`,
			fragment.Value("prodid", `(?i)`+paraOpen+`Product\s+ID\s*:?\s*([^<\s]+)`+paraClose),
		),
		Always("preamble",
			fragment.CheckFront(`(?i)<p[\s>]`),
		),
		Block{
			When("supply", `(?is)`+paraOpen+`An Act to apply\b`,
				fragment.Value("apply", `(?is)`+paraOpen+`(An Act to apply\b.*?)`+paraClose),
			),
			When("ordinary", `(?is)`+paraOpen+`An Act\b`,
				fragment.Value("longtitle", `(?is)`+paraOpen+`(An Act\b.*?)`+paraClose),
			),
		},
		Optional("date", `(?i)`+paraOpen+`\[`,
			fragment.Value("consoldate", `(?is)`+paraOpen+`\[(.*?)\]`+paraClose),
		),
		Block{
			When("petition1", `(?is)`+paraOpen+`Most Gracious Sovereign[^<]*?BE IT THEREFORE ENACTED`,
				fragment.Value("petition1", `(?is)`+paraOpen+`(Most Gracious Sovereign.*?)`+paraClose),
			),
			When("petition2", `(?is)`+paraOpen+`Most Gracious Sovereign`,
				fragment.Value("petition2", `(?is)`+paraOpen+`(Most Gracious Sovereign.*?)`+paraClose),
			),
		},
		Optional("enact", `(?is)<p[^>]*>\s*(?:<[^>]+>\s*)*(?:and\s+)?BE IT (?:THEREFORE )?ENACTED`,
			fragment.Value("enact", `(?is)<p[^>]*>\s*((?:<[^>]+>\s*)*(?:and\s+)?BE IT (?:THEREFORE )?ENACTED.*?)\s*</p>\s*`),
		),
	),
}

// SIGrammar describes header of Statutory Instruments.
var SIGrammar = &Grammar{
	Name: "si",
	Blocks: append(append([]Block{}, leading...),
		Always("heading",
			fragment.Value("sititle", `(?is)<h1[^>]*>\s*(.*?)\s*</h1>\s*`),
			fragment.Value("sinumber", `(?i)<h2[^>]*>\s*(?:S\.\s*I\.\s*)?(\d{4})\s+No\.\s*(\d+)\s*</h2>\s*`),
		),
		Optional("subject", `(?i)<h3[^>]*>`,
			fragment.Value("subject", `(?is)<h3[^>]*>\s*(.*?)\s*</h3>\s*`),
		),
		isbnBlock,
		Optional("made", `(?i)`+paraOpen+`Made\b`,
			fragment.Value("made", `(?is)`+paraOpen+`Made[\s\-:]*(.*?)`+paraClose),
		),
	),
}
