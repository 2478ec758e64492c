// ABOUTME: Prompt templates for the classifier, planner, generator, charts, and editor
// ABOUTME: safeFormat fills {name} placeholders without reinterpreting inserted values
package pipeline

import "strings"

// jsonOnlyPrompt is prepended on the single repair retry after a parse failure
const jsonOnlyPrompt = "Previous reply was not valid JSON. Please REPLY with valid JSON only (no explanations, no code fences)."

const classifierPrompt = `
Ты — классификатор аудитории для генерации презентаций. На входе — короткий user_request и (опционально) project_context.
Верни строго JSON с полями:
- label: одно из ["TopManagement","Experts","Investors"]
- confidence: 0.0-1.0
- rationale: 1-2 предложения почему
- suggested_actions: список коротких действий

Return ONLY the JSON object — no extra text.
USER_QUERY: {user_text}
`

const plannerPrompt = `
Ты — генератор структуры презентации (только структура, без содержания).
Вход: audience (TopManagement | Experts | Investors) и краткий project_context.
Задача: вернуть строго ТОЛЬКО JSON-массив объектов в формате:
[{{"slide_id":1,"title":"Заголовок","task":"Короткое задание"}}, ...]

Требования:
- Количество слайдов обязательно 10–15.
- slide_id — последовательные целые числа, начиная с 1.
- title — короткий заголовок на русском (не больше 6 слов).
- task — 1–2 коротких предложений с заданием для генерации контента (на русском).
- Верни ТОЛЬКО валидный JSON-массив без пояснений и кода.
AUDIENCE: {audience}
PROJECT_CONTEXT_SNIPPET: {context_snippet}
`

const slidePrompt = `
Ты — ассистент, который создаёт контент для слайда, используя ТОЛЬКО данные ниже.

ТЕМА: {topic}
СЛАЙД №{slide_id}: "{slide_title}"
ЗАДАЧА: {slide_task}

ИСТОЧНИКОВЫЕ CHUNKS:
{chunks_text}

ТРЕБОВАНИЯ:
1) Используй ТОЛЬКО факты из CHUNKS; не выдумывай числа и источники.
2) Верни РОВНО один валидный JSON-объект без пояснений, без кода и без ` + "```" + `
3) Если релевантных данных нет — верни:
{{ "slide_id": {slide_id}, "title": "{slide_title}", "used_facts": [], "content": "Данные для этого раздела отсутствуют" }}
4) Структура JSON:
- "slide_id": число
- "title": строка
- "used_facts": массив коротких дословных цитат из CHUNKS (каждая ≤ 80 символов)
- "content": строка без markdown-заголовков:
    1–2 предложения, пустая строка, затем 3–4 буллета (каждый начинается с "* ", ≤ 70 символов)
`

const chartPrompt = `
You create DATA-DRIVEN charts using ONLY the PROVIDED CHUNKS and SLIDE CONTENT below.

CONTEXT:
TOPIC: {topic}
SLIDE #{slide_id}: "{slide_title}"
TASK: {slide_task}

PROVIDED DATA (priority order):
1. SLIDE_CONTENT: The text of the slide.
2. CHUNKS: Additional context from the document.

{chunks_text}

CONSTRAINTS:
- Prioritize data from the SLIDE_CONTENT. Use CHUNKS only if SLIDE_CONTENT lacks sufficient data.
- Use ONLY numeric facts present in the provided data. Do NOT infer, average, extrapolate, or normalize.
- If data is insufficient, return charts=[].
- Keep labels short. Values must be numbers.
- The chart title and labels must be in the same language as the slide content.
- Prefer line for time series, bar for categories, pie for share breakdowns (≤6 items).
- Max 2 charts.

Return ONLY valid JSON with:
{{
  "charts": [
    {{
      "type": "bar" | "line" | "pie",
      "title": "<short>",
      "labels": ["<l1>", "<l2>", "..."],
      "values": [n1, n2, ...],
      "reason": "<why this encoding is correct>",
      "used_facts": [{{ "excerpt": "<verbatim or close>", "chunk_id": "<id>" }}]
    }}
  ],
  "explanation": "<1-2 sentences>",
  "errors": []
}}
`

const editPrompt = `
Ты — редактор одного слайда презентации.

Вход (РОВНО один JSON-объект):
- slide_id (int)
- title (string)
- content (string)     # полный текст слайда: 1–2 фразы и 3–4 буллета
- action (string)      # одно из: polish | correct | translate | expand | shorten | simplify | specify | custom
- params (object)      # опциональные параметры действия
- custom_prompt (string) # пользовательская инструкция для режима 'custom' (опционально)

Требования к действию (выполни только выбранное action):
- polish: улучшай стиль и логику, избегай тавтологий и пассивного залога; не меняй смысл; объём ±10%; термины сохраняй (params.preserve_terms=true — обязательно сохранить).
- correct: исправь орфографию/пунктуацию/грамматику; форматируй числа (разделители тысяч пробелом, % слитно), единицы и названия не меняй; объём тот же.
- translate: переведи на язык params.lang (например, "en"); структура обязательна: 1–2 фразы, пустая строка, 3–4 буллета; имена компаний/аббревиатуры не переводить, если общеприняты.
- expand: добавь 1–2 уместных уточнения, используя ТОЛЬКО факты из content/params; не придумывай числа; максимум 4 буллета; можно использовать params.focus для приоритета темы.
- shorten: сократи до сути: 1–2 фразы и максимум 4 буллета; каждый буллет ≤ 70 символов; убери повторы и вводные слова.
- simplify: упростись для широкой аудитории: замени сложные конструкции простыми, убери канцелярит/жаргон; термины оставь.
- specify: сделай формулировки предметнее, заменяя общее на конкретное ТОЛЬКО из content; если есть числа — используй их; новые факты не добавляй.
- custom: следуй тексту custom_prompt, соблюдая формат вывода и ограничения ниже.

Общие ограничения:
- Используй ТОЛЬКО факты из content или params. Числа не выдумывай.
- Язык вывода = язык входного content (кроме translate, там язык = params.lang).
- Если для выполнения не хватает данных (например, отсутствует params.lang для translate) — выставь requires_external_data=true и в explanation кратко перечисли, что нужно.

Формат ВЫХОДА (РОВНО один JSON-объект, без пояснений и без кода):
{{
"slide_id": <int>,
"title": "<новый заголовок или пусто>",
"content": "<1–2 фразы, пустая строка, 3–4 буллета с префиксом '* '>",
"edits_applied": ["<выполненное_действие>"],
"assets": [],
"requires_external_data": false,
"explanation": "<1–2 предложения о внесённых изменениях>"
}}
`

// safeFormat substitutes {name} placeholders with args values and unescapes
// doubled braces. Inserted values are written verbatim and never rescanned,
// so braces inside user text or retrieved chunks cannot corrupt the template.
func safeFormat(template string, args map[string]string) string {
	var sb strings.Builder
	for i := 0; i < len(template); {
		switch {
		case strings.HasPrefix(template[i:], "{{"):
			sb.WriteByte('{')
			i += 2
		case strings.HasPrefix(template[i:], "}}"):
			sb.WriteByte('}')
			i += 2
		case template[i] == '{':
			end := strings.IndexByte(template[i:], '}')
			if end < 0 {
				sb.WriteString(template[i:])
				i = len(template)
				continue
			}
			name := template[i+1 : i+end]
			if v, ok := args[name]; ok {
				sb.WriteString(v)
			} else {
				sb.WriteString(template[i : i+end+1])
			}
			i += end + 1
		default:
			sb.WriteByte(template[i])
			i++
		}
	}
	return sb.String()
}
