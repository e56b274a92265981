package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"courseplatform/config"
	"courseplatform/middleware"
	"courseplatform/models"
	"courseplatform/utils"
)

type QuestionsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewQuestionsController(db *gorm.DB, cfg *config.Config) *QuestionsController {
	return &QuestionsController{DB: db, Cfg: cfg}
}

const questionsTable = "chapter_questions"

// answerMatches compares the stored answer against a submission with the
// strictness the question type calls for:
//   - single: string equality after stringification
//   - multiple: set equality of string slices
//   - true_false: boolean, accepting "true"/"false" strings
//   - short_answer: trimmed lowercase match; the stored answer may be a
//     list of acceptable strings
func answerMatches(expected, got interface{}, questionType string) bool {
	switch questionType {
	case models.QuestionTypeSingle:
		return stringify(expected) == stringify(got)

	case models.QuestionTypeMultiple:
		a, aok := stringSet(expected)
		b, bok := stringSet(got)
		if !aok || !bok || len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
		return true

	case models.QuestionTypeTrueFalse:
		return toBool(expected) == toBool(got)

	case models.QuestionTypeShortAnswer:
		want := normalizeAnswer(got)
		if list, ok := expected.([]interface{}); ok {
			for _, e := range list {
				if normalizeAnswer(e) == want {
					return true
				}
			}
			return false
		}
		return normalizeAnswer(expected) == want
	}
	return false
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		// JSON numbers; trim the ".0" a whole number picks up.
		return strings.TrimSuffix(fmt.Sprintf("%v", t), ".0")
	default:
		return fmt.Sprintf("%v", t)
	}
}

func stringSet(v interface{}) ([]string, bool) {
	list, ok := v.([]interface{})
	if !ok {
		return nil, false
	}
	out := make([]string, len(list))
	for i, e := range list {
		out[i] = stringify(e)
	}
	sort.Strings(out)
	return out, true
}

func toBool(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	default:
		return strings.EqualFold(stringify(v), "true")
	}
}

func normalizeAnswer(v interface{}) string {
	return strings.ToLower(strings.TrimSpace(stringify(v)))
}

func decodeJSONColumn(raw datatypes.JSON) interface{} {
	if len(raw) == 0 {
		return nil
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

// ListChapterQuestions returns the chapter's quiz in position order.
// The authoritative answer rides along; grading stays client-visible.
func (qc *QuestionsController) ListChapterQuestions(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	chapterID, ok := paramUint(c, "chapterId")
	if !ok {
		return utils.BadRequest(c, "invalid_chapter_id")
	}

	courseID, reply, ok := requireEnrolledChapter(c, qc.DB, userID, chapterID)
	if !ok {
		return reply
	}

	var questions []models.ChapterQuestion
	err := qc.DB.Where("chapter_id = ?", chapterID).
		Order("position ASC, id ASC").
		Find(&questions).Error
	if err != nil {
		return utils.Internal(c)
	}

	return c.JSON(fiber.Map{"chapterId": chapterID, "courseId": courseID, "questions": questions})
}

type checkAnswerInput struct {
	UserAnswer interface{} `json:"userAnswer"`
}

// CheckAnswer grades one submission against the stored answer.
func (qc *QuestionsController) CheckAnswer(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	questionID, ok := paramUint(c, "questionId")
	if !ok {
		return utils.BadRequest(c, "invalid_question_id")
	}

	var question models.ChapterQuestion
	if err := qc.DB.First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "question_not_found")
		}
		return utils.Internal(c)
	}

	_, reply, ok := requireEnrolledChapter(c, qc.DB, userID, question.ChapterID)
	if !ok {
		return reply
	}

	var input checkAnswerInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid_body")
	}

	expected := decodeJSONColumn(question.Answer)
	correct := answerMatches(expected, input.UserAnswer, question.Type)

	return c.JSON(fiber.Map{
		"questionId":  questionID,
		"correct":     correct,
		"explanation": question.Explanation,
		"expected":    expected,
	})
}

type questionInput struct {
	Type        string      `json:"type"`
	Question    string      `json:"question"`
	Options     interface{} `json:"options"`
	Answer      interface{} `json:"answer"`
	Explanation string      `json:"explanation"`
	Score       *int        `json:"score"`
}

func encodeJSONColumn(v interface{}) (datatypes.JSON, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func (qc *QuestionsController) CreateQuestion(c *fiber.Ctx) error {
	chapterID, ok := paramUint(c, "chapterId")
	if !ok {
		return utils.BadRequest(c, "invalid_chapter_id")
	}

	var input questionInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid_body")
	}
	if input.Question == "" {
		return utils.BadRequest(c, "question_required")
	}
	if input.Type == "" {
		input.Type = models.QuestionTypeSingle
	}
	if !models.IsValidQuestionType(input.Type) {
		return utils.BadRequest(c, "invalid_type")
	}

	if _, err := courseIDByChapter(qc.DB, chapterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "chapter_not_found")
		}
		return utils.Internal(c)
	}

	options, err := encodeJSONColumn(input.Options)
	if err != nil {
		return utils.BadRequest(c, "invalid_options")
	}
	answer, err := encodeJSONColumn(input.Answer)
	if err != nil {
		return utils.BadRequest(c, "invalid_answer")
	}

	score := 1
	if input.Score != nil && *input.Score > 0 {
		score = *input.Score
	}

	question := models.ChapterQuestion{
		ChapterID:   chapterID,
		Type:        input.Type,
		Question:    input.Question,
		Options:     options,
		Answer:      answer,
		Explanation: input.Explanation,
		Score:       score,
	}

	err = qc.DB.Transaction(func(tx *gorm.DB) error {
		pos, err := nextPosition(tx, questionsTable, "chapter_id", chapterID)
		if err != nil {
			return err
		}
		question.Position = pos
		return tx.Create(&question).Error
	})
	if err != nil {
		return utils.Internal(c)
	}

	return c.Status(fiber.StatusCreated).JSON(question)
}

func (qc *QuestionsController) UpdateQuestion(c *fiber.Ctx) error {
	questionID, ok := paramUint(c, "questionId")
	if !ok {
		return utils.BadRequest(c, "invalid_question_id")
	}

	var question models.ChapterQuestion
	if err := qc.DB.First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "question_not_found")
		}
		return utils.Internal(c)
	}

	// Raw map so "field absent" and "field set to null" stay apart for
	// the JSON columns.
	var body map[string]interface{}
	if err := c.BodyParser(&body); err != nil {
		return utils.BadRequest(c, "invalid_body")
	}

	updates := map[string]interface{}{}
	if t, present := body["type"]; present {
		typeStr, _ := t.(string)
		if !models.IsValidQuestionType(typeStr) {
			return utils.BadRequest(c, "invalid_type")
		}
		updates["type"] = typeStr
	}
	if q, present := body["question"]; present {
		qStr, _ := q.(string)
		if qStr == "" {
			return utils.BadRequest(c, "question_required")
		}
		updates["question"] = qStr
	}
	if opts, present := body["options"]; present {
		encoded, err := encodeJSONColumn(opts)
		if err != nil {
			return utils.BadRequest(c, "invalid_options")
		}
		updates["options"] = encoded
	}
	if ans, present := body["answer"]; present {
		encoded, err := encodeJSONColumn(ans)
		if err != nil {
			return utils.BadRequest(c, "invalid_answer")
		}
		updates["answer"] = encoded
	}
	if expl, present := body["explanation"]; present {
		explStr, _ := expl.(string)
		updates["explanation"] = explStr
	}
	if s, present := body["score"]; present {
		score, _ := s.(float64)
		if score < 1 {
			score = 1
		}
		updates["score"] = int(score)
	}
	if len(updates) == 0 {
		return c.JSON(fiber.Map{"success": true})
	}

	if err := qc.DB.Model(&question).Updates(updates).Error; err != nil {
		return utils.Internal(c)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (qc *QuestionsController) DeleteQuestion(c *fiber.Ctx) error {
	questionID, ok := paramUint(c, "questionId")
	if !ok {
		return utils.BadRequest(c, "invalid_question_id")
	}

	var question models.ChapterQuestion
	if err := qc.DB.First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "question_not_found")
		}
		return utils.Internal(c)
	}

	err := qc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ChapterQuestion{}, questionID).Error; err != nil {
			return err
		}
		return closeGapAfterDelete(tx, questionsTable, "chapter_id", question.ChapterID, question.Position)
	})
	if err != nil {
		return utils.Internal(c)
	}

	return c.JSON(fiber.Map{"success": true})
}

func (qc *QuestionsController) ReorderQuestions(c *fiber.Ctx) error {
	chapterID, ok := paramUint(c, "chapterId")
	if !ok {
		return utils.BadRequest(c, "invalid_chapter_id")
	}

	var input reorderInput
	if err := c.BodyParser(&input); err != nil || len(input.OrderedIDs) == 0 {
		return utils.BadRequest(c, "orderedIds_required")
	}

	if err := validateReorderIDs(qc.DB, questionsTable, "chapter_id", chapterID, input.OrderedIDs); err != nil {
		return utils.BadRequest(c, "question_"+err.Error())
	}

	err := qc.DB.Transaction(func(tx *gorm.DB) error {
		return applyReorder(tx, questionsTable, input.OrderedIDs)
	})
	if err != nil {
		return utils.Internal(c)
	}

	return c.JSON(fiber.Map{"success": true})
}

func (qc *QuestionsController) MoveQuestion(c *fiber.Ctx) error {
	questionID, ok := paramUint(c, "questionId")
	if !ok {
		return utils.BadRequest(c, "invalid_question_id")
	}

	var input positionInput
	if err := c.BodyParser(&input); err != nil || input.Position < 1 {
		return utils.BadRequest(c, "invalid_position")
	}

	var question models.ChapterQuestion
	if err := qc.DB.First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "question_not_found")
		}
		return utils.Internal(c)
	}

	var count int64
	if err := qc.DB.Model(&models.ChapterQuestion{}).Where("chapter_id = ?", question.ChapterID).Count(&count).Error; err != nil {
		return utils.Internal(c)
	}
	newPos := input.Position
	if newPos > int(count) {
		newPos = int(count)
	}

	err := qc.DB.Transaction(func(tx *gorm.DB) error {
		return moveToPosition(tx, questionsTable, "chapter_id", question.ChapterID, questionID, question.Position, newPos)
	})
	if err != nil {
		return utils.Internal(c)
	}

	return c.JSON(fiber.Map{"success": true, "position": newPos})
}
