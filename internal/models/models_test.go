package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStudentFromJSONHashesPassword(t *testing.T) {
	var student Student
	err := student.FromJSON([]byte(`{"first_name":" Ada ","last_name":"Lovelace","email":"ADA@example.com","password":"s3cret-pass","role_type_id":2}`))
	require.NoError(t, err)

	require.Equal(t, "Ada", student.FirstName)
	require.Equal(t, "ada@example.com", student.Email)
	require.Equal(t, uint(2), student.RoleTypeID)
	require.NotEqual(t, "s3cret-pass", student.PasswordHash)
	require.True(t, student.CheckPassword("s3cret-pass"))
	require.False(t, student.CheckPassword("wrong-pass"))
	require.Equal(t, map[string]any{"email": "ada@example.com"}, student.UniqueKwargs())
}

func TestStudentFromJSONReportsMissingField(t *testing.T) {
	var student Student
	err := student.FromJSON([]byte(`{"first_name":"Ada","last_name":"Lovelace","password":"s3cret-pass"}`))
	require.EqualError(t, err, "Invalid input: missing field email")
}

func TestStudentFromJSONRejectsMalformedBody(t *testing.T) {
	var student Student
	err := student.FromJSON([]byte(`{"first_name": 12}`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "Invalid input:")
}

func TestStudentUpdate(t *testing.T) {
	student := Student{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}
	require.NoError(t, student.SetPassword("first-pass"))

	require.False(t, student.Update(map[string]any{"unknown": "x"}))
	require.False(t, student.Update(map[string]any{"first_name": "Ada"}))

	require.True(t, student.Update(map[string]any{"last_name": "King", "language_id": float64(3)}))
	require.Equal(t, "King", student.LastName)
	require.Equal(t, uint(3), student.LanguageID)

	require.False(t, student.Update(map[string]any{"password": "first-pass"}))
	require.True(t, student.Update(map[string]any{"password": "second-pass"}))
	require.True(t, student.CheckPassword("second-pass"))
}

func TestStudentUpdateValidatesPatch(t *testing.T) {
	student := Student{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}
	require.NoError(t, student.SetPassword("first-pass"))

	require.False(t, student.Update(map[string]any{"first_name": "Z", "password": "x"}))
	require.True(t, student.CheckPassword("first-pass"))
	require.Equal(t, "Ada", student.FirstName)

	require.False(t, student.Update(map[string]any{"email": "not-an-email"}))
	require.False(t, student.Update(map[string]any{"first_name": ""}))
	require.Equal(t, "ada@example.com", student.Email)

	require.True(t, student.Update(map[string]any{"email": "ADA@lovelace.dev"}))
	require.Equal(t, "ada@lovelace.dev", student.Email)
}

func TestReferenceUpdatesValidatePatch(t *testing.T) {
	language := SupportedLanguage{Code: "en", Name: "English"}
	require.False(t, language.Update(map[string]any{"code": "x"}))
	require.False(t, language.Update(map[string]any{"name": ""}))

	location := CourseLocation{Name: "Hub", City: "Berlin"}
	require.False(t, location.Update(map[string]any{"city": ""}))

	answer := StudentAnswer{Answer: "yes"}
	require.False(t, answer.Update(map[string]any{"answer": ""}))
}

func TestCourseFromJSONValidatesDates(t *testing.T) {
	var course Course
	err := course.FromJSON([]byte(`{"name":"Intro to Go","start_date":"2026-03-01T09:00:00Z","end_date":"2026-02-01T09:00:00Z"}`))
	require.EqualError(t, err, errCourseEndsBeforeStart.Error())

	err = course.FromJSON([]byte(`{"name":"Intro to Go","description":"<script>x</script>Basics","start_date":"2026-03-01T09:00:00Z"}`))
	require.NoError(t, err)
	require.Equal(t, "Basics", course.Description)
	require.Nil(t, course.EndDate)
}

func TestCourseUpdateParsesTimes(t *testing.T) {
	course := Course{Name: "Intro", StartDate: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}

	require.True(t, course.Update(map[string]any{"end_date": "2026-04-01T09:00:00Z"}))
	require.NotNil(t, course.EndDate)
	require.Equal(t, 4, int(course.EndDate.Month()))

	require.False(t, course.Update(map[string]any{"start_date": "2026-05-01T09:00:00Z"}), "start after end is rejected")
	require.Equal(t, 3, int(course.StartDate.Month()))
}

func TestStudentAnswerUpdate(t *testing.T) {
	answer := StudentAnswer{StudentID: 1, CourseID: 2, QuestionID: 3, Answer: "yes"}

	require.False(t, answer.Update(map[string]any{}))
	require.True(t, answer.Update(map[string]any{"answer": "no", "metadata": map[string]any{"score": 1}}))
	require.Equal(t, "no", answer.Answer)
	require.Equal(t, 1, answer.Metadata["score"])
	require.Equal(t, map[string]any{"student_id": uint(1), "course_id": uint(2), "question_id": uint(3)}, answer.UniqueKwargs())
}

func TestRoleTypeNormalisesName(t *testing.T) {
	var role RoleType
	require.NoError(t, role.FromJSON([]byte(`{"name":" Admin "}`)))
	require.Equal(t, "admin", role.Name)
	require.False(t, role.Update(map[string]any{"name": "ADMIN"}))
	require.True(t, role.Update(map[string]any{"name": "teacher"}))
}
