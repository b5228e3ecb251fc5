package vm

import "riascript/compiler"

// argCounts gives each built-in's fixed argument count, taken verbatim
// from the original engine's function-table comment block (ria_core.h):
// the wire format has no argument-count operand of its own, so the VM
// must already know how many stack entries to pop for a given FuncID.
var argCounts = map[compiler.FuncID]int{
	compiler.FuncLoadCookie:              3, // load_cookie(site, user, key)
	compiler.FuncGetHTML:                 1, // get_html(url)
	compiler.FuncLastResponse:            0, // last_response()
	compiler.FuncGetHeader:               1, // get_header(name)
	compiler.FuncExtractString:           4, // extract_string(src, pos, begin, end)
	compiler.FuncGetHTMLToFile:           2, // get_html_to_file(filename, url)
	compiler.FuncExtractStringFromFile:   4, // extract_string_from_file(file, pos, begin, end)
	compiler.FuncSubstring:               3, // substring(str, pos, len)
	compiler.FuncSaveCookie:              3, // save_cookie(site, user, key)
	compiler.FuncGetBinaryToFile:         2, // get_binary_to_file(filename, url)
	compiler.FuncDehtml:                  1, // dehtml(str)
	compiler.FuncGetHTMLWithDump:         2, // get_html_with_dump(url, dump)
	compiler.FuncGetHTMLToFileWithDump:   3, // get_html_to_file_with_dump(file, url, dump)
	compiler.FuncPost:                    2, // post(url, values)
	compiler.FuncPostToFile:              3, // post_to_file(file, url, values)
	compiler.FuncPostWithDump:            3, // post_with_dump(url, values, dump)
	compiler.FuncPostToFileWithDump:      4, // post_to_file_with_dump(file, url, values, dump)
	compiler.FuncSetHeader:               2, // set_header(name, value)
	compiler.FuncLength:                  1, // length(str)
	compiler.FuncIntToString:             1, // int_to_string(int)
	compiler.FuncCreateParserForFile:     2, // create_parser_for_file(filename, type)
	compiler.FuncAddParsingRule:          4, // add_parsing_rule(name, begin, end, hint)
	compiler.FuncLoadFromFile:            1, // load_from_file(filename)
	compiler.FuncSaveToFile:              2, // save_to_file(filename, content)
	compiler.FuncStringToInt:             1, // string_to_int(str)
}
