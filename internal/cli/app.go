package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"quizhub/internal/quiz"
)

const maxPromptAttempts = 3

var gradeIntro = map[string]string{
	quiz.GradeYikes: "Ouch. ",
	quiz.GradeLow:   "Not bad with ",
	quiz.GradeMid:   "Pretty good with ",
	quiz.GradeHigh:  "Very nice with ",
}

var gradeOutro = map[string]string{
	quiz.GradeYikes: "Please try again.",
	quiz.GradeLow:   "Definitely try again.",
	quiz.GradeMid:   "Could use some improvement.",
	quiz.GradeHigh:  "It's time to move onto the next quiz.",
}

// Run lists the available quizzes, takes the chosen one question by question
// and prints the graded results.
func Run(ctx context.Context, in io.Reader, out io.Writer, service *quiz.Service, user string) error {
	quizzes, err := service.ListQuizzes(ctx)
	if err != nil {
		return err
	}
	if len(quizzes) == 0 {
		fmt.Fprintln(out, "No quizzes yet.")
		return nil
	}

	fmt.Fprintln(out, "Available quizzes:")
	for _, item := range quizzes {
		fmt.Fprintf(out, "  %-20s %s by %s\n", item.Slug, item.Name, item.Owner)
	}
	fmt.Fprint(out, "\nWhich quiz? (slug): ")

	reader := bufio.NewReader(in)
	slug, err := readLine(reader)
	if err != nil {
		return err
	}

	session, err := service.StartSession(ctx, slug, user)
	if err != nil {
		return err
	}

	q := session.Quiz()
	fmt.Fprintf(out, "\nThe topic of this quiz is %s.\n", q.Name)
	fmt.Fprintf(out, "There are %d questions. Credit goes to %s.\n", len(q.Questions), q.Owner)

	if err := session.Start(); err != nil {
		return err
	}
	if session.RemainingQuestions() == 0 {
		fmt.Fprintln(out, "\nThis quiz has no questions yet.")
		return nil
	}

	attemptID := ""
	for attemptID == "" {
		question := session.CurrentQuestion()
		if question == nil {
			break
		}

		fmt.Fprintf(out, "\n%d remaining. %s\n\n", session.RemainingQuestions(), question.Content)
		for idx, answer := range question.Answers {
			fmt.Fprintf(out, "%c. %s\n", 'A'+idx, answer.Content)
		}
		fmt.Fprintln(out)

		chosenIdx, ok := readChoice(reader, out, len(question.Answers))
		if !ok {
			return errors.New("no valid answer given")
		}

		attemptID, err = session.Choose(ctx, question.Answers[chosenIdx].ID)
		if err != nil {
			return err
		}
	}

	results, err := service.GetGradedResults(ctx, attemptID)
	if err != nil {
		return err
	}
	printResults(out, results)
	return nil
}

func printResults(out io.Writer, results quiz.Results) {
	fmt.Fprintf(out, "\n%s%d%%\n", gradeIntro[results.Grade], results.Percent)
	fmt.Fprintln(out, gradeOutro[results.Grade])
	fmt.Fprintf(out, "Quiz time was %d seconds\n\n", results.ElapsedSeconds)

	for _, item := range results.Questions {
		fmt.Fprintln(out, item.Question.Content)
		if item.WasCorrect {
			fmt.Fprintf(out, "  [x] %s\n", item.Correct.Content)
		} else {
			fmt.Fprintf(out, "  [ ] %s\n", item.Chosen.Content)
			fmt.Fprintf(out, "  [x] %s\n", item.Correct.Content)
		}
	}
}

func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func readChoice(reader *bufio.Reader, out io.Writer, optionCount int) (int, bool) {
	if optionCount < 1 {
		return -1, false
	}

	maxLetter := byte('A' + optionCount - 1)

	for attempt := 1; attempt <= maxPromptAttempts; attempt++ {
		input, err := readLine(reader)
		if err != nil {
			return -1, false
		}

		input = strings.ToUpper(input)
		if len(input) == 1 {
			letter := input[0]
			if letter >= 'A' && letter <= maxLetter {
				return int(letter - 'A'), true
			}
		}

		if attempt < maxPromptAttempts {
			fmt.Fprintf(out, "Invalid input. Please enter a letter A-%c.\n", maxLetter)
		}
	}

	return -1, false
}
