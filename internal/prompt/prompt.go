// Package prompt builds generation requests for undocumented declarations.
// Two fixed policies exist: one for the top-level class/interface and one for
// methods.
package prompt

import (
	"github.com/julianshen/docwriter/internal/parser"
	"github.com/julianshen/docwriter/internal/provider"
)

// Sampling parameters sent with every request.
const (
	maxTokens   = 256
	temperature = 0.7
	topP        = 1
)

const classInstruction = `You are an expert Java developer tasked with generating high-quality JavaDoc for Java classes and interfaces. You will be provided with the source code of a java class or java interface. Your task is to generate javadoc for this class or interface. Follow these guidelines:

1. Provide a concise, clear description of the class/interface purpose and behavior.
2. The javadoc must be generated for the class or interface level, and not on the method level.
3. Use present tense, starting with a verb (e.g., 'Manages...', 'Provides...').
4. Mention key functionalities, but avoid implementation details.
5. If the class extends or implements others, mention this with @see tags.
6. Note any usage constraints or important considerations.
7. For interfaces, describe the contract it defines.
8. Don't generate method-level JavaDoc or code comments.
9. Don't repeat the source code in your response.

Respond only with the JavaDoc comment, starting with /** and ending with */.`

const methodInstruction = `You are an expert Java developer tasked with generating high-quality JavaDoc for Java methods. You will be provided with java source code. Your task is to generate javadoc for this java method. Follow these guidelines:

1. Provide a concise, clear description of the method purpose and behavior.
2. The javadoc must be generated for the method level.
3. Use present tense, starting with a verb (e.g., 'Manages...', 'Provides...').
4. Mention key functionalities, but avoid implementation details.
5. Ensure @param and @return tags are included where necessary and come at the end of the Javadoc.
6. Note any usage constraints or important considerations.
7. Don't generate code comments.
8. Don't repeat the source code in your response.

Respond only with the JavaDoc comment, starting with /** and ending with */.`

// One worked example anchors the output format for class-level generation: an
// undocumented class as input, its Javadoc as the expected output.
const exampleClassInput = `public class ReportArchiver {

    private final Path archiveRoot;

    public ReportArchiver(Path archiveRoot) {
        this.archiveRoot = archiveRoot;
    }

    public void archive(Report report) throws IOException {
        Path target = archiveRoot.resolve(report.id() + ".json");
        Files.writeString(target, report.toJson());
    }

    private void purgeOlderThan(Instant cutoff) throws IOException {
        try (Stream<Path> entries = Files.list(archiveRoot)) {
            entries.filter(p -> isOlderThan(p, cutoff)).forEach(this::delete);
        }
    }
}`

const exampleClassOutput = `/**
 * Persists generated reports to an archive directory and removes entries
 * that have aged past a retention cutoff.
 */`

// stopSequences halts generation before the model starts echoing a sibling
// declaration after the comment.
var stopSequences = []string{"public class", "public interface"}

// Build constructs the generation request for a declaration using the policy
// matching its kind.
func Build(f *parser.File, decl parser.Declaration, model string) provider.CompletionRequest {
	req := provider.CompletionRequest{
		Model:       model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	switch decl.Kind {
	case parser.KindType:
		// The snippet is every top-level child except imports, so the type's
		// annotations and siblings are visible without import clutter.
		req.Messages = []provider.Message{
			provider.NewSystemMessage(classInstruction),
			provider.NewUserMessage(exampleClassInput),
			provider.NewAssistantMessage(exampleClassOutput),
			provider.NewUserMessage(f.ContextWithoutImports()),
		}
		req.Stop = stopSequences
	default:
		req.Messages = []provider.Message{
			provider.NewSystemMessage(methodInstruction),
			provider.NewUserMessage(decl.Text),
		}
	}

	return req
}
