// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package patterns

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

func rule(name, expr string) Rule {
	return Rule{Name: name, Re: regexp.MustCompile(expr)}
}

func groupRule(name, expr string, group int) Rule {
	return Rule{Name: name, Re: regexp.MustCompile(expr), Group: group}
}

func (r Rule) accept(fn func(text string, start, end int) bool) Rule {
	r.Accept = fn
	return r
}

func (r Rule) trimRight(cutset string) Rule {
	r.TrimRight = cutset
	return r
}

const (
	huUpper = `A-ZÁÉÍÓÖŐÚÜŰ`
	huLower = `a-záéíóöőúüű`
	huWord  = `[` + huUpper + `][` + huLower + `]+`
	huType  = `(?:u\.|utca|útja|út|tere|tér|körút|krt\.|sétány|köz|sor|fasor|rakpart)`

	// nameWord is one capitalised name token: Anna, O'Brien, McDonald, Kovács-Nagy.
	nameWord = `\p{Lu}(?:['’]\p{Lu})?\p{Ll}+(?:\p{Lu}\p{Ll}+)?(?:-\p{Lu}\p{Ll}+)?`
	initial  = `\p{Lu}\.`

	dateNumeric = `\d{1,2}[/.\-]\d{1,2}[/.\-]\d{2,4}|\d{4}[/.\-]\d{1,2}[/.\-]\d{1,2}`
	dateWords   = `\d{1,2}\.?\s+\p{L}{3,}\.?\s+\d{4}|\p{L}{3,}\.?\s+\d{1,2},?\s+\d{4}`

	nationalityValue = `([A-Za-zÀ-ÿ\s]+?)(?:\n|,|$)`
)

func newDefaultLibrary() *Library {
	return &Library{
		Email: []Rule{
			rule("email_tld", `\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}(?:\.[A-Za-z]{2,})?\b`),
			rule("email_long_tld", `\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,20}\b`),
			rule("email_provider", `\b[A-Za-z0-9._%+-]+(?:\.[A-Za-z0-9._%+-]+)*@(?:gmail|yahoo|outlook|hotmail|icloud|protonmail)\.[A-Za-z]{2,}\b`),
			rule("email_first_last", `\b[A-Za-z]+\.[A-Za-z]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
			rule("email_separated", `\b[A-Za-z0-9]+(?:[._%+-][A-Za-z0-9]+)*@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		},
		EmailProviders: []string{"gmail", "yahoo", "outlook", "hotmail", "icloud", "protonmail"},

		phone:         phoneTable(),
		PhoneFallback: phoneFallback(),
		postcode:      postcodeTable(),
		nationalID:    nationalIDTable(),

		Passport: []Rule{
			rule("passport_letters_digits", `\b[A-Z]{1,2}\d{6,9}\b`),
			rule("passport_digits_letter", `\b\d{8,9}[A-Z]\b`),
			rule("passport_us", `\b[A-Z]{2}\d{7}\b`),
			rule("passport_eu", `\b[A-Z]\d{7}[A-Z]\b`),
			rule("passport_asia", `\b\d{9}[A-Z]{2}\b`),
		},

		Address: addressRules(),
		Social:  socialRules(),
		Name:    nameRules(),

		DateOfBirth: []Rule{
			groupRule("dob_label",
				`(?i)(?:\b(?:date\s*of\s*birth|d\.?o\.?b|born(?:\s+on)?|birthday|birth\s*date|geburtsdatum|geboren(?:\s+am)?|data\s*de\s*nascimento|fecha\s*de\s*nacimiento|date\s*de\s*naissance)|née?\s+le)[\s:.]*(`+dateNumeric+`|`+dateWords+`)`, 1),
			groupRule("dob_japanese", `生年月日[\s:：]*(\d{4}[年/.\-]\d{1,2}[月/.\-]\d{1,2}日?)`, 1),
			rule("dob_with_age", `(?i)\b(?:\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4}|\d{4}[/\-]\d{1,2}[/\-]\d{1,2})\s*\(?\d{1,2}\s*(?:years?|y\.o\.)\)?`),
			rule("dob_iso", `\b\d{4}[-/.]\d{1,2}[-/.]\d{1,2}\b`).accept(plausibleNumericDate),
			rule("dob_day_first", `\b\d{1,2}[-/.]\d{1,2}[-/.]\d{4}\b`).accept(plausibleNumericDate),
		},

		Age: []Rule{
			groupRule("age_label",
				`(?i)(?:\b(?:age|anos?|jahre?|años?|età|leeftijd|wiek)|âge|возраст)[\s:]+(\d{1,3}(?:\s*(?:years?|anos?|jahre?|años?|anni|ans|jaar|lat|лет))?)`, 1).accept(IsBoundary),
			groupRule("age_pt", `(?i)\bidade[\s:]+(\d{1,3}(?:\s*anos?)?)`, 1).accept(IsBoundary),
			groupRule("age_de", `(?i)\balter[\s:]+(\d{1,3}(?:\s*jahre?)?)`, 1).accept(IsBoundary),
			groupRule("age_es", `(?i)\bedad[\s:]+(\d{1,3}(?:\s*años?)?)`, 1).accept(IsBoundary),
			groupRule("age_ja", `年齢[\s:：]*(\d{1,3}\s*歳?)`, 1),
			rule("age_suffix", `(?i)\b\d{1,2}\s+(?:years?\s+old|anos?\s+de\s+idade|jahre\s+alt|años\s+de\s+edad)`).accept(IsBoundary),
		},

		Nationality: []Rule{
			groupRule("nationality_en", `(?i)\b(?:nationality|citizenship)[\s:]+`+nationalityValue, 1),
			groupRule("nationality_pt", `(?i)\bnacionalidade[\s:]+`+nationalityValue, 1),
			groupRule("nationality_de", `(?i)\b(?:nationalität|staatsangehörigkeit)[\s:]+`+nationalityValue, 1),
			groupRule("nationality_es", `(?i)\bnacionalidad[\s:]+`+nationalityValue, 1),
			groupRule("nationality_fr", `(?i)\bnationalité[\s:]+`+nationalityValue, 1),
			groupRule("nationality_ja", `国籍[\s:：]*([^\n,]+?)(?:\n|,|$)`, 1),
		},
	}
}

func phoneTable() map[string][]Rule {
	huRegional := `(?:22|23|33|42|44|52|53|62|63|66|67|72|73|74|75|76|77|78|79|82|83|84|85|87|88|89|91|92|93|94|95|96)`
	return map[string][]Rule{
		"GB": {
			rule("gb_mobile", `(?:\+44\s?7\d{3}|\b07\d{3})\s?\d{3}\s?\d{3}\b`),
			rule("gb_landline", `(?:\+44\s?(?:20\s?\d{4}\s?\d{4}|1\d{3}\s?\d{6}|2\d{9})|\b(?:020\s?\d{4}\s?\d{4}|01\d{3}\s?\d{6}|02\d{9}))\b`),
			rule("gb_premium", `(?:\+44\s?9\d{9}|\b09\d{9})\b`),
			rule("gb_freephone", `(?:\+44\s?80\d\s?\d{3}\s?\d{4}|\b080\d\s?\d{3}\s?\d{4})\b`),
		},
		"US": {
			rule("us_international", `\+1[-.\s]?\(?[2-9]\d{2}\)?[-.\s]?[2-9]\d{2}[-.\s]?\d{4}\b`),
			rule("us_national", `(?:\([2-9]\d{2}\)\s?|\b[2-9]\d{2}[-.\s]?)[2-9]\d{2}[-.\s]?\d{4}\b`),
			rule("us_toll_free", `\+1[-.\s]?(?:800|888|877|866|855|844|833)[-.\s]?\d{3}[-.\s]?\d{4}\b`),
		},
		"DE": {
			rule("de_mobile", `(?:\+49\s?1[5-9]\d{1,2}|\b01[5-9]\d{1,2})[\s/]?\d{7,8}\b`),
			rule("de_landline", `(?:\+49\s?\d{2,4}|\b0\d{2,4})[\s/]?\d{6,8}\b`),
		},
		"FR": {
			rule("fr_mobile", `(?:\+33\s?[67]|\b0[67])(?:[\s.]?\d{2}){4}\b`),
			rule("fr_landline", `(?:\+33\s?[1-59]|\b0[1-59])(?:[\s.]?\d{2}){4}\b`),
		},
		"CA": {
			rule("ca_international", `\+1[-.\s]?\(?[2-9]\d{2}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`),
			rule("ca_national", `(?:\([2-9]\d{2}\)\s?|\b[2-9]\d{2}[-.\s]?)\d{3}[-.\s]?\d{4}\b`),
		},
		"AU": {
			rule("au_mobile", `(?:\+61\s?4\d{2}|\b04\d{2})\s?\d{3}\s?\d{3}\b`),
			rule("au_landline", `(?:\+61\s?[2-8]|\b0[2-8])\s?\d{4}\s?\d{4}\b`),
		},
		"HU": {
			rule("hu_mobile", `(?:\+36\s?|\b06\s?)(?:20|30|31|50|70)\s?\d{3}\s?\d{4}\b`),
			rule("hu_budapest", `(?:\+36\s?|\b06\s?)1\s?\d{3}\s?\d{4}\b`),
			rule("hu_regional", `(?:\+36\s?|\b06\s?)`+huRegional+`\s?\d{3}\s?\d{3}\b`),
			// PDF extraction often breaks numbers over lines.
			rule("hu_fragmented", `(?:\+36|\b06|\b01|\b20|\b30|\b31|\b70)[ \t]*\n?[ \t]*\d{3}[ \t]*\n?[ \t]*\d{4}\b`),
			rule("hu_fragmented_pairs", `(?:\+36|\b06|\b01|\b20|\b30|\b31|\b70)[ \t]*\n?[ \t]*\d{2}[ \t]*\n?[ \t]*\d{2}[ \t]*\n?[ \t]*\d{3}\b`),
		},
		"BR": {
			rule("br_international", `\+55\s?\d{2}\s?\d{4,5}[-.\s]?\d{4}\b`),
			rule("br_national", `\(\d{2}\)\s?\d{4,5}[-.\s]?\d{4}\b`),
		},
		"MX": {
			rule("mx_international", `\+52\s?1?\s?\d{2}\s?\d{4}[-.\s]?\d{4}\b`),
			rule("mx_national", `\(\d{2,3}\)\s?\d{3,4}[-.\s]?\d{4}\b`),
		},
		"JP": {
			rule("jp_international", `\+81\s?\d{1,2}[-.\s]?\d{4}[-.\s]?\d{4}\b`),
			rule("jp_national", `\b0\d{1,2}[-.\s]?\d{4}[-.\s]?\d{4}\b`),
		},
	}
}

func phoneFallback() []Rule {
	return []Rule{
		rule("international", `\+\d{1,3}\s*\(?\d{1,4}\)?\s*\d{4,5}[-.\s]?\d{4}\b`),
		groupRule("labelled",
			`(?i)\b(?:telefone|telefono|telefon|telephone|phone|tel|mobile|mobil|celular|cell|fixo|fax)\.?[\s:]*(\+?\d[\d \t\-.()]{8,20})`, 1).trimRight(".-("),
	}
}

func postcodeTable() map[string][]Rule {
	fiveDigit := []Rule{rule("five_digit", `\b\d{5}\b`)}
	return map[string][]Rule{
		"GB": {
			rule("gb", `(?i)\b[A-Z]{1,2}\d[A-Z\d]?[ \t]*\d[A-Z]{2}\b`),
			rule("gb_long", `(?i)\b[A-Z]{2}\d{2}[ \t]*\d[A-Z]{2}\b`),
		},
		"US": {rule("us_zip", `\b\d{5}(?:-\d{4})?\b`)},
		"DE": fiveDigit,
		"FR": fiveDigit,
		"IT": fiveDigit,
		"ES": fiveDigit,
		"CA": {rule("ca", `(?i)\b[A-Z]\d[A-Z][ \t]?\d[A-Z]\d\b`)},
		"AU": {rule("au", `\b\d{4}\b`).accept(notBareYear)},
		"NL": {rule("nl", `\b\d{4}[ \t]?[A-Z]{2}\b`)},
		"SE": {rule("se", `\b\d{3}[ \t]?\d{2}\b`)},
		"HU": {rule("hu", `\b\d{4}\b`).accept(notBareYear)},
	}
}

func nationalIDTable() map[string][]Rule {
	return map[string][]Rule{
		"GB": {
			rule("gb_nino", `\b[A-Z]{2}\d{6}[A-Z]?\b`),
			rule("gb_nino_spaced", `\b[A-Z]{2}(?:[ \t]\d{2}){3}[ \t][A-Z]\b`),
		},
		"US": {
			rule("us_ssn", `\b\d{3}-\d{2}-\d{4}\b`),
			rule("us_ssn_spaced", `\b\d{3} \d{2} \d{4}\b`),
		},
		"DE": {rule("de_tax_id", `\b\d{10,11}\b`)},
		"FR": {rule("fr_insee", `\b[1-4]\d{2}(?:0[1-9]|1[0-2])(?:0[1-9]|[1-3]\d|4[0-8])\d{8}\b`)},
		"CA": {
			rule("ca_sin", `\b\d{3}-\d{3}-\d{3}\b`),
			rule("ca_sin_spaced", `\b\d{3} \d{3} \d{3}\b`),
		},
		"AU": {
			rule("au_tfn_spaced", `\b\d{3} \d{3} \d{3}\b`),
			rule("au_tfn", `\b\d{9}\b`),
		},
		"IT": {rule("it_codice_fiscale", `\b[A-Z]{6}\d{2}[A-Z]\d{2}[A-Z]\d{3}[A-Z]\b`)},
		"ES": {
			rule("es_dni", `\b\d{8}[A-Z]\b`),
			rule("es_nie", `\b[XYZ]\d{7}[A-Z]\b`),
		},
		"SE": {rule("se_personnummer", `\b(?:19|20)?\d{6}[-+ ]?\d{4}\b`)},
	}
}

func addressRules() AddressRules {
	indicators := []struct{ name, expr string }{
		{"address", `\baddress:`},
		{"adresse", `\badresse:`},
		{"lives_at", `\blives at\b`},
		{"residing_at", `\bresiding at\b`},
		{"location", `\blocation:`},
		{"located_at", `\blocated at\b`},
		{"direccion", `\bdirección:`},
		{"strasse", `\bstraße\b`},
		{"str", `\bstr\.`},
		{"weg", `\bweg\b`},
		{"platz", `\bplatz\b`},
		{"unit", `\b(?:apartment|apt|suite|ste|unit|flat)\b`},
		{"hash", `#`},
	}
	rules := AddressRules{
		StreetKeywords: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bstreet\b`),
			regexp.MustCompile(`(?i)\bst\.?\b`),
			regexp.MustCompile(`(?i)\bavenue\b`),
			regexp.MustCompile(`(?i)\bave\.?\b`),
			regexp.MustCompile(`(?i)\broad\b`),
			regexp.MustCompile(`(?i)\brd\.?\b`),
			regexp.MustCompile(`(?i)\blane\b`),
			regexp.MustCompile(`(?i)\bln\.?\b`),
			regexp.MustCompile(`(?i)\bstraße\b`),
			regexp.MustCompile(`(?i)\bstr\.?\b`),
			regexp.MustCompile(`(?i)\bweg\b`),
			regexp.MustCompile(`(?i)\bplatz\b`),
			regexp.MustCompile(`(?i)\bcalle\b`),
			regexp.MustCompile(`(?i)\brua\b`),
			regexp.MustCompile(`(?i)\bvia\b`),
			regexp.MustCompile(`(?i)\butca\b`),
		},
		RejectKeywords: []string{
			"education", "experience", "work", "skills", "senior", "junior",
			"engineer", "manager", "developer", "architect", "university",
			"science", "bachelor", "master", "degree", "doktor", "fachrichtung",
		},
		StreetNumber: regexp.MustCompile(`(?:^|\s)\d{1,5}(?:\s|,|$)`),
		PostalLike:   regexp.MustCompile(`\b\d{4,5}\b`),
		MaxLength:    150,
		Structural: []Rule{
			rule("hu_full", huWord+`(?:[ \t]+`+huWord+`)?\s+`+huType+`\s+\d+(?:/[A-Za-z0-9]+|[ \t]?[A-Za-z]\b)?\.?,?\s*\d{4}\s+`+huWord).accept(IsBoundary),
			rule("hu_street", huWord+`(?:[ \t]+`+huWord+`)?\s+`+huType+`\s+\d+(?:[ \t]*\n\s*\d{4}\s+`+huWord+`)?`).accept(IsBoundary),
			rule("hu_city_first", `\b\d{4}\s+`+huWord+`[ \t]*\n\s*`+huWord+`\s+`+huType+`\s+\d+`).accept(IsBoundary),
			rule("hu_major_city", `\b\d{4}[ \t]+(?:Budapest|Debrecen|Szeged|Miskolc|Pécs|Győr|Nyíregyháza|Kecskemét|Székesfehérvár|Szombathely|Szolnok|Tatabánya|Kaposvár|Érd|Veszprém|Eger|Sopron|Zalaegerszeg)`).accept(IsBoundary),
			rule("de_full", `\p{Lu}[\p{Ll}ß]+(?:straße|strasse|str\.|weg|platz|allee|gasse|ring|damm)[ \t]+\d{1,4}[a-zA-Z]?,?[ \t]*\d{5}[ \t]+\p{Lu}\p{Ll}+`).accept(IsBoundary),
			rule("es_full", `(?:Calle|Avenida|Avda\.|Plaza|Paseo)[ \t]+(?:de[ \t]+(?:la[ \t]+)?)?\p{Lu}\p{L}+(?:[ \t]+\p{Lu}\p{L}+)*,?[ \t]+\d{1,4},?[ \t]*\d{5}[ \t]+\p{Lu}\p{Ll}+`).accept(IsBoundary),
		},
		Street: []Rule{
			rule("numbered_street", `\b\d{1,5}[a-zA-Z]?[ \t]+(?:[A-Z][A-Za-z'\-]*[ \t]+){1,3}(?:Street|St|Avenue|Ave|Road|Rd|Lane|Ln|Drive|Dr|Court|Ct|Way|Boulevard|Blvd|Close|Place|Crescent|Gardens|Terrace|Square)\b\.?`),
			rule("apartment", `(?i)\b\d{1,5}[ \t]+(?:[A-Za-z0-9]+[ \t]+){1,4}(?:apartment|apt|suite|ste|unit|flat)\.?[ \t]*#?\d+\b`),
		},
	}
	for _, ind := range indicators {
		rules.Indicators = append(rules.Indicators,
			groupRule("indicator_"+ind.name, `(?is)`+ind.expr+`[\s:]*(.{5,100}?)(?:\n\n|$)`, 1))
	}
	return rules
}

func socialRules() []SocialRule {
	social := func(platform, name, expr string) SocialRule {
		return SocialRule{Rule: rule(name, `(?i)`+expr), Platform: platform}
	}
	labelled := func(platform, name, expr string) SocialRule {
		return SocialRule{Rule: groupRule(name, `(?i)`+expr, 1), Platform: platform}
	}
	urlTail := ".,;:!?)"

	handle := social("twitter", "twitter_handle", `@[A-Za-z0-9_]{3,15}`)
	handle.Accept = standaloneHandle

	website := labelled("website", "website_label",
		`\b(?:portfolio|website|web|site|blog|homepage):\s*((?:https?://)?[A-Za-z0-9][A-Za-z0-9\-]*(?:\.[A-Za-z0-9\-]+)*\.[A-Za-z]{2,}(?:/[A-Za-z0-9\-._~:/?#\[\]@!$&'()*+,;=%]*)?)`)
	website.TrimRight = urlTail

	personal := social("website", "website_personal_domain",
		`(?:https?://)?\b[A-Za-z0-9][A-Za-z0-9\-]*\.(?:dev|io|me|tech|design|art|portfolio|works|page)\b/?`)
	personal.Accept = notHostFragment

	facebook := social("facebook", "facebook_url", `(?:https?://|\b)(?:www\.)?facebook\.com/[A-Za-z0-9.\-_/]{5,50}`)
	facebook.TrimRight = urlTail
	fb := social("facebook", "facebook_short", `(?:https?://|\b)(?:www\.)?fb\.com/[A-Za-z0-9.\-_/]{5,50}`)
	fb.TrimRight = urlTail

	return []SocialRule{
		social("linkedin", "linkedin_profile", `(?:https?://)?(?:[a-z]{2}\.)?(?:www\.)?linkedin\.com/in/[A-Za-z0-9\-_]{3,50}/?`),
		social("linkedin", "linkedin_company", `(?:https?://)?(?:[a-z]{2}\.)?(?:www\.)?linkedin\.com/company/[A-Za-z0-9\-_]{3,50}/?`),
		social("linkedin", "linkedin_legacy", `(?:https?://)?(?:[a-z]{2}\.)?(?:www\.)?linkedin\.com/profile/view\?id=\d+`),

		social("twitter", "twitter_url", `(?:https?://|\b)(?:www\.)?twitter\.com/[A-Za-z0-9_]{1,15}/?`),
		social("twitter", "x_url", `(?:https?://|\b)(?:www\.)?x\.com/[A-Za-z0-9_]{1,15}/?`),
		labelled("twitter", "twitter_label", `\btwitter:\s*(@[A-Za-z0-9_]{1,15})`),
		handle,

		social("github", "github_url", `(?:https?://|\b)(?:www\.)?github\.com/[A-Za-z0-9\-_]{1,39}/?`),

		facebook,
		fb,

		social("instagram", "instagram_url", `(?:https?://|\b)(?:www\.)?instagram\.com/[A-Za-z0-9._]{1,30}/?`),
		labelled("instagram", "instagram_label", `\binstagram:\s*(@[A-Za-z0-9._]{1,30})`),

		social("youtube", "youtube_url", `(?:https?://|\b)(?:www\.)?youtube\.com/[A-Za-z0-9\-_@]{1,50}/?`),
		social("youtube", "youtube_short", `(?:https?://|\b)youtu\.be/[A-Za-z0-9\-_]{11}/?`),

		social("tiktok", "tiktok_url", `(?:https?://|\b)(?:www\.)?tiktok\.com/@[A-Za-z0-9._]{1,24}/?`),

		website,
		personal,
	}
}

func nameRules() NameRules {
	particles := `(?:van|von|de|der|den|da|di|del|dos|du|la|le|bin|ibn)`
	return NameRules{
		Rules: []Rule{
			rule("titled", `(?:Dr|Mr|Mrs|Ms|Miss|Prof|Sir|Lady)\.?[ \t]+`+nameWord+`(?:[ \t]+(?:`+initial+`[ \t]+)?`+nameWord+`){0,2}`).accept(IsBoundary),
			rule("plain", nameWord+`(?:[ \t]+(?:`+initial+`[ \t]+)?`+nameWord+`){1,3}`).accept(IsBoundary),
			rule("particle", nameWord+`(?:[ \t]+`+particles+`)+(?:[ \t]+`+nameWord+`){1,2}`).accept(IsBoundary),
			rule("upper", `\p{Lu}(?:\p{Lu}|['-]\p{Lu})+(?:[ \t]+\p{Lu}(?:\p{Lu}|['-]\p{Lu})+){1,3}`).accept(IsBoundary),
		},
		HeaderLines: 5,
		RejectWords: toSet(
			"curriculum", "vitae", "resume", "résumé", "cv", "profile", "experience",
			"summary", "contact", "objective", "education", "skills", "personal",
			"details", "information", "references", "page",
			"software", "engineer", "developer", "manager", "designer", "consultant",
			"analyst", "architect", "director", "senior", "junior", "lead",
		),
		CommonSurnames: toSet(
			"nagy", "kovács", "szabó", "tóth", "varga", "kiss", "molnár", "bakos",
			"takács", "fekete", "novák", "horváth", "lakatos", "juhász", "oláh",
			"balogh", "simon", "farkas", "németh", "papp", "mészáros", "szűcs",
		),
		SkipLine: regexp.MustCompile(`@|\d{3,}`),
	}
}

func toSet(words ...string) map[string]bool {
	out := make(map[string]bool, len(words))
	for _, w := range words {
		out[w] = true
	}
	return out
}

// notBareYear drops four digit values in the 1900-2099 range unless they sit
// where a postcode would: before a town name or after a state code.
func notBareYear(text string, start, end int) bool {
	v, err := strconv.Atoi(text[start:end])
	if err != nil || v < 1900 || v > 2099 {
		return true
	}
	return followedByCapitalised(text, end) || precededByUpperWord(text, start)
}

// standaloneHandle accepts @handles that are not part of an email address and
// are followed by whitespace or the end of the text.
func standaloneHandle(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) || strings.ContainsRune("./@", r) {
			return false
		}
	}
	if end == len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[end:])
	return unicode.IsSpace(r)
}

// notHostFragment rejects personal domains that are the tail of a longer host
// or of an email address.
func notHostFragment(text string, start, end int) bool {
	if start == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:start])
	return !strings.ContainsRune("@.-/_", r)
}

// plausibleNumericDate accepts YYYY-MM-DD and DD-MM-YYYY (or MM-DD-YYYY)
// values whose fields are in range.
func plausibleNumericDate(text string, start, end int) bool {
	fields := strings.FieldsFunc(text[start:end], func(r rune) bool {
		return r == '-' || r == '/' || r == '.'
	})
	if len(fields) != 3 {
		return false
	}
	n := make([]int, 3)
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return false
		}
		n[i] = v
	}
	var a, b int
	if len(fields[0]) == 4 {
		a, b = n[2], n[1]
	} else {
		a, b = n[0], n[1]
		if a <= 12 && b > 12 {
			a, b = b, a
		}
	}
	return a >= 1 && a <= 31 && b >= 1 && b <= 12
}
