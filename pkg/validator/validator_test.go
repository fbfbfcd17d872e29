package validator

import (
	"errors"
	"testing"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type moodForm struct {
	Mood  string   `binding:"omitempty,mood"`
	Moods []string `binding:"omitempty,dive,mood"`
	Date  string   `binding:"required,date"`
}

func TestCustomValidator(t *testing.T) {
	v := NewCustomValidator()

	tests := []struct {
		name    string
		form    moodForm
		wantErr bool
	}{
		{"valid", moodForm{Mood: "flow", Moods: []string{"buggy", "learning"}, Date: "2024-03-01"}, false},
		{"timestamp date", moodForm{Date: "2024-03-01T10:00:00Z"}, false},
		{"unknown mood", moodForm{Mood: "happy", Date: "2024-03-01"}, true},
		{"unknown mood in list", moodForm{Moods: []string{"flow", "sad"}, Date: "2024-03-01"}, true},
		{"bad date", moodForm{Date: "03/01/2024"}, true},
		{"missing date", moodForm{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateStruct(&tt.form)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCustomValidator_NonStruct(t *testing.T) {
	v := NewCustomValidator()
	require.NoError(t, v.ValidateStruct(nil))
	require.NoError(t, v.ValidateStruct([]int{1}))
	require.NotNil(t, v.Engine())
}

func TestRegisterCustomTranslations(t *testing.T) {
	v := NewCustomValidator()
	validate := v.Engine().(*validator.Validate)

	uni := ut.New(en.New(), en.New(), zh.New())
	enTrans, _ := uni.GetTranslator("en")
	zhTrans, _ := uni.GetTranslator("zh")
	require.NoError(t, RegisterCustomTranslations(validate, enTrans))
	require.NoError(t, RegisterCustomTranslations(validate, zhTrans))

	err := v.ValidateStruct(&moodForm{Mood: "happy", Date: "2024-03-01"})
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 1)

	assert.Equal(t, "Mood must be one of flow, buggy, learning, meetings, standard", verrs[0].Translate(enTrans))
	assert.Contains(t, verrs[0].Translate(zhTrans), "必须是")
}
