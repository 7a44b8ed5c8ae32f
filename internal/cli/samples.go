package cli

import "quiz-reply-service/internal/domain"

// sampleBanks is served when neither Postgres nor a bank directory is configured.
func sampleBanks() map[string]domain.Bank {
	return map[string]domain.Bank{
		"python": {
			ID: "python",
			Questions: []domain.Question{
				{
					Text:    "What is the output of print(2 ** 3)?",
					Options: []string{"6", "8", "9", "12"},
					Answer:  "8",
				},
				{
					Text:    "Which of the following is the correct way to declare a function in Python?",
					Options: []string{"function my_func():", "def my_func():", "func my_func():", "define my_func():"},
					Answer:  "def my_func():",
				},
				{
					Text:    "Which data type is immutable in Python?",
					Options: []string{"list", "dict", "set", "tuple"},
					Answer:  "tuple",
				},
				{
					Text:    "What does len([1, 2, 3]) return?",
					Options: []string{"2", "3", "4", "Error"},
					Answer:  "3",
				},
			},
		},
	}
}
