package app

import "quiz-service/internal/domain"

// Grading is the outcome of scoring one submission against the stored questions.
type Grading struct {
	Score          int
	TotalQuestions int
	Details        []domain.AnswerDetail
	Answers        []domain.Answer
	Skipped        []int64
}

// Grade scores submitted pairs in submission order.
//
// A pair is correct iff an option was selected and it equals the stored correct index;
// correct pairs add the question's points. Pairs referencing an unknown question produce
// no answer row and no score but still count toward TotalQuestions.
func Grade(candidateID string, submitted []domain.AnswerSubmission, questions map[int64]domain.Question) Grading {
	g := Grading{
		TotalQuestions: len(submitted),
		Details:        make([]domain.AnswerDetail, 0, len(submitted)),
		Answers:        make([]domain.Answer, 0, len(submitted)),
	}
	for _, sub := range submitted {
		question, ok := questions[sub.QuestionID]
		if !ok {
			g.Skipped = append(g.Skipped, sub.QuestionID)
			continue
		}

		correct := isCorrect(sub.SelectedAnswer, question.CorrectAnswer)
		if correct {
			g.Score += question.Points
		}
		g.Answers = append(g.Answers, domain.Answer{
			CandidateID: candidateID,
			QuestionID:  question.ID,
			Selected:    sub.SelectedAnswer,
			IsCorrect:   correct,
		})
		g.Details = append(g.Details, domain.AnswerDetail{
			QuestionID:     question.ID,
			QuestionText:   question.Text,
			Options:        question.Options,
			CorrectAnswer:  question.CorrectAnswer,
			SelectedAnswer: sub.SelectedAnswer,
			IsCorrect:      correct,
			Points:         question.Points,
		})
	}
	return g
}

func isCorrect(selected, correct int) bool {
	return selected != domain.Unanswered && selected == correct
}

func questionIDs(submitted []domain.AnswerSubmission) []int64 {
	seen := make(map[int64]struct{}, len(submitted))
	ids := make([]int64, 0, len(submitted))
	for _, sub := range submitted {
		if _, ok := seen[sub.QuestionID]; ok {
			continue
		}
		seen[sub.QuestionID] = struct{}{}
		ids = append(ids, sub.QuestionID)
	}
	return ids
}
