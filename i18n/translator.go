package i18n

// Translator retrieves localized messages for error codes.
// data provides optional metadata to embed in the message (for example,
// "type" or "ref").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "missing_required_argument":
			return "必須の引数がありません"
		case "schema_load":
			return "スキーマを読み込めません"
		case "library_load":
			return "基本型ライブラリを読み込めません"
		case "unmapped_primitive_type":
			return "プリミティブ型に対応する基本型がありません"
		case "unresolved_type_reference":
			return "型参照を解決できません"
		case "unsupported_content_model":
			return "未対応のコンテンツモデルです"
		case "cyclic_base_type":
			return "基底型の継承が循環しています"
		case "invalid_option":
			return "オプションが不正です"
		case "output_write":
			return "出力を書き込めません"
		}
	default: // "en"
		switch code {
		case "missing_required_argument":
			return "missing required argument"
		case "schema_load":
			return "cannot load schema"
		case "library_load":
			return "cannot load base-type library"
		case "unmapped_primitive_type":
			return "no base-type mapping for primitive type"
		case "unresolved_type_reference":
			return "cannot resolve type reference"
		case "unsupported_content_model":
			return "unsupported content model"
		case "cyclic_base_type":
			return "cyclic base type chain"
		case "invalid_option":
			return "invalid option"
		case "output_write":
			return "cannot write output"
		}
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
