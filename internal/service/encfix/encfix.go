package encfix

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Выгрузки 1С приезжают с побитой кодировкой: кириллица CP1251, прочитанная
// как latin1 или utf8. Починка — упорядоченный список перекодировок с
// предикатом валидности: первый вариант, давший кириллицу, побеждает.

// HasCyrillic сообщает, есть ли в строке хоть одна русская буква
func HasCyrillic(s string) bool {
	for _, r := range s {
		if (r >= 'а' && r <= 'я') || (r >= 'А' && r <= 'Я') || r == 'ё' || r == 'Ё' {
			return true
		}
	}
	return false
}

// LooksLikeMojibake эвристика "строка похожа на побитую кириллицу".
// Уже читаемая кириллица и обычный латинский текст не трогаются.
func LooksLikeMojibake(s string) bool {
	if len(s) < 2 || HasCyrillic(s) {
		return false
	}

	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return true
		}
	}

	if len(s) > 3 && !isPlainASCIIText(s) {
		return true
	}

	return false
}

func isPlainASCIIText(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		case r == ' ', r == '\t', r == '-', r == '_', r == '.', r == ',':
		default:
			return false
		}
	}
	return true
}

// transform одна стратегия перекодировки; пустой результат или ошибка
// означают "не подошло"
type transform struct {
	name string
	fn   func(string) (string, error)
}

var transforms = []transform{
	{"latin1->cp1251", latin1ToCP1251},
	{"utf8-as-cp1251", utf8BytesAsCP1251},
	{"cp1251-as-utf8", cp1251BytesAsUTF8},
}

// Repair пытается восстановить строку. Второе значение false — строка
// не восстановима, вызывающий оставляет её как есть.
func Repair(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}

	for _, t := range transforms {
		fixed, err := t.fn(s)
		if err != nil {
			continue
		}
		if fixed != "" && HasCyrillic(fixed) {
			return fixed, true
		}
	}

	return "", false
}

// FixFilename восстанавливает имя файла от 1С: сырые байты CP1251,
// прочитанные как latin1. Если не вышло — возвращает как было.
func FixFilename(raw string) string {
	if raw == "" {
		return "unknown"
	}
	if fixed, err := latin1ToCP1251(raw); err == nil && fixed != "" {
		return fixed
	}
	return raw
}

// latin1ToCP1251: каждый code point <0x100 — это исходный байт CP1251
func latin1ToCP1251(s string) (string, error) {
	buf := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xff {
			// строка не является latin1-представлением байтов
			buf = append(buf, byte(r&0xff))
			continue
		}
		buf = append(buf, byte(r))
	}
	return charmap.Windows1251.NewDecoder().String(string(buf))
}

// utf8BytesAsCP1251: сырые utf8-байты строки декодируются как CP1251
func utf8BytesAsCP1251(s string) (string, error) {
	return charmap.Windows1251.NewDecoder().String(s)
}

// cp1251BytesAsUTF8: строка кодируется в CP1251, байты читаются как utf8
func cp1251BytesAsUTF8(s string) (string, error) {
	encoded, err := charmap.Windows1251.NewEncoder().String(s)
	if err != nil {
		return "", err
	}
	return encoded, nil
}
