package webutil

import (
	"log"
	"reflect"
	"strings"

	"github.com/go-playground/locales/ja"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	ja_translations "github.com/go-playground/validator/v10/translations/ja"
)

// Validator はアプリケーション全体で共有されるバリデータインスタンスです。
var Validator *validator.Validate

// Trans はエラーメッセージを翻訳するためのトランスレータです。
var Trans ut.Translator

var fieldNameTranslations = map[string]string{
	"quality":     "評価",
	"is_correct":  "回答の正誤",
	"confidence":  "自信度",
	"version":     "バージョン",
	"learner_id":  "学習者ID",
	"exported_at": "エクスポート日時",
	"cards":       "カード",
}

func translateField(fe validator.FieldError) string {
	if name, ok := fieldNameTranslations[fe.Field()]; ok {
		return name
	}
	return fe.Field()
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func init() {
	Validator = validator.New()

	// JSONタグからフィールド名を取得するように設定
	Validator.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	japanese := ja.New()
	uni := ut.New(japanese, japanese)
	var found bool
	Trans, found = uni.GetTranslator("ja")
	if !found {
		log.Fatal("translator not found")
	}

	if err := ja_translations.RegisterDefaultTranslations(Validator, Trans); err != nil {
		log.Fatal(err)
	}

	Validator.RegisterTranslation("required", Trans, func(ut ut.Translator) error {
		return ut.Add("required", "{0}は必須項目です。", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("required", translateField(fe))
		return t
	})

	Validator.RegisterTranslation("oneof", Trans, func(ut ut.Translator) error {
		return ut.Add("oneof", "{0}は[{1}]のいずれかを指定してください。", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("oneof", translateField(fe), fe.Param())
		return t
	})

	// min / max は数値と文字列で文言を分ける
	Validator.RegisterTranslation("min", Trans, func(ut ut.Translator) error {
		if err := ut.Add("min-number", "{0}は{1}以上で指定してください。", true); err != nil {
			return err
		}
		return ut.Add("min", "{0}は{1}文字以上で入力してください。", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		key := "min"
		if isNumberKind(fe.Kind()) {
			key = "min-number"
		}
		t, _ := ut.T(key, translateField(fe), fe.Param())
		return t
	})

	Validator.RegisterTranslation("max", Trans, func(ut ut.Translator) error {
		if err := ut.Add("max-number", "{0}は{1}以下で指定してください。", true); err != nil {
			return err
		}
		return ut.Add("max", "{0}は{1}文字以下で入力してください。", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		key := "max"
		if isNumberKind(fe.Kind()) {
			key = "max-number"
		}
		t, _ := ut.T(key, translateField(fe), fe.Param())
		return t
	})
}
